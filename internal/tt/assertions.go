package tt

import (
	"context"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rickchristie/xsec"
	"github.com/stretchr/testify/assert"
)

// relTolerance is the relative tolerance used when comparing estimates.
const relTolerance = 1e-12

// AssertEstimate asserts that actual matches expected within a relative
// tolerance on both the cross section and the error.
func AssertEstimate(t *testing.T, expected, actual xsec.Estimate, msgAndArgs ...any) {
	t.Helper()
	assertClose(t, expected.CrossSection, actual.CrossSection, msgAndArgs...)
	assertClose(t, expected.Error, actual.Error, msgAndArgs...)
}

func assertClose(t *testing.T, expected, actual float64, msgAndArgs ...any) {
	t.Helper()
	if expected == 0 {
		assert.Equal(t, expected, actual, msgAndArgs...)
		return
	}
	assert.InEpsilon(t, expected, actual, relTolerance, msgAndArgs...)
}

// AssertGolden fails the test with a unified diff when got differs from want.
func AssertGolden(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		t.Fatalf("rendering diff: %v", err)
	}
	t.Errorf("output mismatch:\n%s", diff)
}

// -----------------------------------------------------------------------------
// RecordingHook - captures every hook event in order
// -----------------------------------------------------------------------------

// RecordingHook implements every xsec hook interface and stores the events
// it receives.
type RecordingHook struct {
	Events []xsec.HookEvent
}

// NewRecordingHook creates an empty RecordingHook.
func NewRecordingHook() *RecordingHook {
	return &RecordingHook{}
}

func (h *RecordingHook) OnBeforeRun(_ context.Context, _ *xsec.RunContext, e xsec.BeforeRunEvent) {
	h.Events = append(h.Events, e)
}

func (h *RecordingHook) OnAfterRun(_ context.Context, _ *xsec.RunContext, e xsec.AfterRunEvent) {
	h.Events = append(h.Events, e)
}

func (h *RecordingHook) OnBeforeSubrun(_ context.Context, _ *xsec.RunContext, e xsec.BeforeSubrunEvent) {
	h.Events = append(h.Events, e)
}

func (h *RecordingHook) OnAfterSubrun(_ context.Context, _ *xsec.RunContext, e xsec.AfterSubrunEvent) {
	h.Events = append(h.Events, e)
}

func (h *RecordingHook) OnEventExported(_ context.Context, _ *xsec.RunContext, e xsec.EventExportedEvent) {
	h.Events = append(h.Events, e)
}

func (h *RecordingHook) OnGenerationFailure(_ context.Context, _ *xsec.RunContext, e xsec.GenerationFailureEvent) {
	h.Events = append(h.Events, e)
}

// CountEventTypes counts recorded events by type name.
func (h *RecordingHook) CountEventTypes() map[string]int {
	counts := make(map[string]int)
	for _, event := range h.Events {
		switch event.(type) {
		case xsec.BeforeRunEvent:
			counts["BeforeRunEvent"]++
		case xsec.AfterRunEvent:
			counts["AfterRunEvent"]++
		case xsec.BeforeSubrunEvent:
			counts["BeforeSubrunEvent"]++
		case xsec.AfterSubrunEvent:
			counts["AfterSubrunEvent"]++
		case xsec.EventExportedEvent:
			counts["EventExportedEvent"]++
		case xsec.GenerationFailureEvent:
			counts["GenerationFailureEvent"]++
		}
	}
	return counts
}

// AfterSubrunEvents returns the recorded AfterSubrunEvents in order.
func (h *RecordingHook) AfterSubrunEvents() []xsec.AfterSubrunEvent {
	var result []xsec.AfterSubrunEvent
	for _, event := range h.Events {
		if e, ok := event.(xsec.AfterSubrunEvent); ok {
			result = append(result, e)
		}
	}
	return result
}
