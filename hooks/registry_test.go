package hooks

import (
	"context"
	"testing"

	"github.com/rickchristie/xsec"
	"github.com/stretchr/testify/assert"
)

type orderHook struct {
	name string
	log  *[]string
}

func (h *orderHook) OnBeforeRun(context.Context, *xsec.RunContext, xsec.BeforeRunEvent) {
	*h.log = append(*h.log, h.name+":before-run")
}

func (h *orderHook) OnAfterSubrun(_ context.Context, _ *xsec.RunContext, e xsec.AfterSubrunEvent) {
	if e.Aborted {
		*h.log = append(*h.log, h.name+":after-subrun-aborted")
		return
	}
	*h.log = append(*h.log, h.name+":after-subrun")
}

// failureOnly implements a single hook interface.
type failureOnly struct {
	seen []xsec.GenerationFailureEvent
}

func (h *failureOnly) OnGenerationFailure(_ context.Context, _ *xsec.RunContext, e xsec.GenerationFailureEvent) {
	h.seen = append(h.seen, e)
}

func TestRegistry_DispatchOrder(t *testing.T) {
	var log []string
	failures := &failureOnly{}

	r := NewRegistry().
		Register(&orderHook{name: "a", log: &log}).
		Register(failures).
		Register(&orderHook{name: "b", log: &log})
	assert.Equal(t, 3, r.Len())

	ctx := context.Background()
	runCtx := xsec.NewRunContext("registry")

	r.FireBeforeRun(ctx, runCtx, xsec.BeforeRunEvent{Subruns: 1})
	r.FireAfterSubrun(ctx, runCtx, xsec.AfterSubrunEvent{})
	r.FireAfterSubrun(ctx, runCtx, xsec.AfterSubrunEvent{Aborted: true})
	r.FireGenerationFailure(ctx, runCtx, xsec.GenerationFailureEvent{SubrunIndex: 2, Failures: 1})

	// Events without an implementing hook are dropped
	r.FireAfterRun(ctx, runCtx, xsec.AfterRunEvent{})
	r.FireBeforeSubrun(ctx, runCtx, xsec.BeforeSubrunEvent{})
	r.FireEventExported(ctx, runCtx, xsec.EventExportedEvent{})

	assert.Equal(t, []string{
		"a:before-run",
		"b:before-run",
		"a:after-subrun",
		"b:after-subrun",
		"a:after-subrun-aborted",
		"b:after-subrun-aborted",
	}, log)
	assert.Equal(t, []xsec.GenerationFailureEvent{{SubrunIndex: 2, Failures: 1}}, failures.seen)
}

func TestRegistry_Empty(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())

	assert.NotPanics(t, func() {
		r.FireBeforeRun(context.Background(), xsec.NewRunContext("x"), xsec.BeforeRunEvent{})
	})
}
