package xsec

import "context"

// Event is a single generated event. The pipeline only reads its weight; the
// rest of the event is opaque and handed to the EventSink untouched.
type Event interface {
	// Weight returns the raw event weight as reported by the source.
	Weight() float64
}

// EventSource produces weighted events for one subrun at a time.
//
// Init is called once at the start of every subrun, before any Next call.
// Strategy and ProcessCrossSections describe the subrun most recently
// initialized.
//
// Next blocks until an event is available. It returns an error wrapping
// [ErrEndOfInput] when the input is exhausted. Any other error is a
// generation failure and counts against the run's abort budget.
type EventSource interface {
	Init(ctx context.Context, cfg SubrunConfig) error
	Next(ctx context.Context) (Event, error)

	// Strategy returns the weighting strategy code declared by the source.
	Strategy() Strategy

	// ProcessCrossSections returns the declared cross section of every
	// process, in the source's own units. Their sum is the inclusive cross
	// section of the subrun.
	ProcessCrossSections() []float64
}

// EventSink persists exported events.
//
// SetCrossSection is called before every WriteEvent with the running total
// that applies to the event being written. Calls are synchronous and must be
// applied in order.
type EventSink interface {
	SetCrossSection(est Estimate) error
	WriteEvent(ev Event) error
}
