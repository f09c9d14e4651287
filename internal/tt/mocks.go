package tt

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickchristie/xsec"
)

// -----------------------------------------------------------------------------
// MockEvent
// -----------------------------------------------------------------------------

// MockEvent is the event produced by MockSource.
type MockEvent struct {
	// Subrun is the index of the subrun that produced the event.
	Subrun int `yaml:"subrun"`
	// Seq is the 0-indexed position of the pull in its subrun's script.
	Seq int     `yaml:"seq"`
	W   float64 `yaml:"weight"`
}

// Weight implements xsec.Event.
func (e *MockEvent) Weight() float64 {
	return e.W
}

// -----------------------------------------------------------------------------
// MockSource - scripted xsec.EventSource
// -----------------------------------------------------------------------------

// Step is one scripted pull outcome.
type Step struct {
	Weight float64
	Err    error
}

// Ok returns a step producing an event with weight w.
func Ok(w float64) Step {
	return Step{Weight: w}
}

// Ones returns n steps producing events of weight 1.
func Ones(n int) []Step {
	steps := make([]Step, n)
	for i := range steps {
		steps[i] = Ok(1)
	}
	return steps
}

// Fail returns a step producing a generation failure.
func Fail() Step {
	return Step{Err: fmt.Errorf("mock: %w", xsec.ErrGenerationFailure)}
}

// EOF returns a step signalling end of input.
func EOF() Step {
	return Step{Err: xsec.ErrEndOfInput}
}

// mockScript is the script of one subrun.
type mockScript struct {
	strategy xsec.Strategy
	xsecs    []float64
	steps    []Step
	initErr  error
}

// MockSource is a configurable xsec.EventSource. Each subrun index plays its
// own script of steps; once a script is exhausted Next returns end of input.
type MockSource struct {
	scripts map[int]*mockScript
	current *mockScript
	index   int
	pos     int

	// Inits records every Init call in order.
	Inits []xsec.SubrunConfig

	// Pulls counts Next calls per subrun index.
	Pulls map[int]int
}

// NewMockSource creates an empty MockSource.
func NewMockSource() *MockSource {
	return &MockSource{
		scripts: make(map[int]*mockScript),
		Pulls:   make(map[int]int),
	}
}

// AddSubrun scripts the subrun with the given index.
func (m *MockSource) AddSubrun(
	index int,
	strategy xsec.Strategy,
	xsecs []float64,
	steps ...Step,
) *MockSource {
	m.scripts[index] = &mockScript{strategy: strategy, xsecs: xsecs, steps: steps}
	return m
}

// FailInit makes Init fail for the given subrun index.
func (m *MockSource) FailInit(index int, err error) *MockSource {
	s, ok := m.scripts[index]
	if !ok {
		s = &mockScript{}
		m.scripts[index] = s
	}
	s.initErr = err
	return m
}

// Init implements xsec.EventSource.
func (m *MockSource) Init(ctx context.Context, cfg xsec.SubrunConfig) error {
	m.Inits = append(m.Inits, cfg)
	s, ok := m.scripts[cfg.Index]
	if !ok {
		return fmt.Errorf("mock: no script for subrun %d", cfg.Index)
	}
	if s.initErr != nil {
		return s.initErr
	}
	m.current = s
	m.index = cfg.Index
	m.pos = 0
	return nil
}

// Next implements xsec.EventSource.
func (m *MockSource) Next(ctx context.Context) (xsec.Event, error) {
	if m.current == nil {
		return nil, errors.New("mock: Next called before Init")
	}
	m.Pulls[m.index]++
	if m.pos >= len(m.current.steps) {
		return nil, xsec.ErrEndOfInput
	}
	step := m.current.steps[m.pos]
	seq := m.pos
	m.pos++
	if step.Err != nil {
		return nil, step.Err
	}
	return &MockEvent{Subrun: m.index, Seq: seq, W: step.Weight}, nil
}

// Strategy implements xsec.EventSource.
func (m *MockSource) Strategy() xsec.Strategy {
	if m.current == nil {
		return 0
	}
	return m.current.strategy
}

// ProcessCrossSections implements xsec.EventSource.
func (m *MockSource) ProcessCrossSections() []float64 {
	if m.current == nil {
		return nil
	}
	return m.current.xsecs
}

// -----------------------------------------------------------------------------
// RecordingSink - xsec.EventSink capturing everything written
// -----------------------------------------------------------------------------

// Record is one event written to a RecordingSink.
type Record struct {
	Event xsec.Event
	// CrossSection is the estimate in effect when the event was written.
	CrossSection xsec.Estimate
}

// RecordingSink records every call made to it.
type RecordingSink struct {
	current xsec.Estimate
	set     bool

	// Records holds the written events in order.
	Records []Record

	// SetCalls counts SetCrossSection calls.
	SetCalls int

	failWriteAt int
	writeErr    error
}

// NewRecordingSink creates an empty RecordingSink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// FailWriteAt makes the n-th WriteEvent call (1-indexed) return err.
func (s *RecordingSink) FailWriteAt(n int, err error) *RecordingSink {
	s.failWriteAt = n
	s.writeErr = err
	return s
}

// SetCrossSection implements xsec.EventSink.
func (s *RecordingSink) SetCrossSection(est xsec.Estimate) error {
	s.SetCalls++
	s.current = est
	s.set = true
	return nil
}

// WriteEvent implements xsec.EventSink.
func (s *RecordingSink) WriteEvent(ev xsec.Event) error {
	if s.failWriteAt > 0 && len(s.Records)+1 == s.failWriteAt {
		return s.writeErr
	}
	if !s.set {
		return errors.New("recording sink: event written before cross section")
	}
	s.Records = append(s.Records, Record{Event: ev, CrossSection: s.current})
	s.set = false
	return nil
}

// Weights returns the raw weights of every recorded event.
func (s *RecordingSink) Weights() []float64 {
	result := make([]float64, len(s.Records))
	for i, r := range s.Records {
		result[i] = r.Event.Weight()
	}
	return result
}

// Compile-time checks.
var (
	_ xsec.EventSource = (*MockSource)(nil)
	_ xsec.EventSink   = (*RecordingSink)(nil)
)
