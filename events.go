package xsec

import "time"

// -----------------------------------------------------------------------------
// Hook Event Interface
// -----------------------------------------------------------------------------

// HookEvent is a marker interface for all hook events.
type HookEvent interface {
	hookEvent()
}

// -----------------------------------------------------------------------------
// Run Events
// -----------------------------------------------------------------------------

// BeforeRunEvent is emitted once before the first subrun starts.
type BeforeRunEvent struct {
	// Subruns is the number of configured subruns.
	Subruns int
}

func (BeforeRunEvent) hookEvent() {}

// AfterRunEvent is emitted once after the run ends, however it ends.
type AfterRunEvent struct {
	// TerminationReason indicates why the run ended.
	TerminationReason TerminationReason

	// Result is the run result. It is set even for aborted runs and holds
	// the partial result when a fatal error occurred.
	Result *RunResult

	// Error is the fatal error (nil unless TerminationReason is
	// TerminationError).
	Error error
}

func (AfterRunEvent) hookEvent() {}

// -----------------------------------------------------------------------------
// Subrun Events
// -----------------------------------------------------------------------------

// BeforeSubrunEvent is emitted after the source was initialized for a
// subrun and before the first pull.
type BeforeSubrunEvent struct {
	Subrun *Subrun

	// Factor is the normalization factor applied to raw weights.
	Factor float64
}

func (BeforeSubrunEvent) hookEvent() {}

// AfterSubrunEvent is emitted when the pull loop of a subrun ends.
type AfterSubrunEvent struct {
	Result SubrunResult

	// Aborted is true when a limit was exceeded during this subrun.
	Aborted bool

	// Total is the run-wide estimate after this subrun.
	Total Estimate
}

func (AfterSubrunEvent) hookEvent() {}

// -----------------------------------------------------------------------------
// Pull Events
// -----------------------------------------------------------------------------

// EventExportedEvent is emitted after an event was written to the sink.
type EventExportedEvent struct {
	SubrunIndex int

	// Accepted is the number of events accepted in this subrun so far,
	// including this one.
	Accepted int64

	Weight       float64
	Contribution float64

	// Total is the running estimate handed to the sink with this event.
	Total Estimate
}

func (EventExportedEvent) hookEvent() {}

// GenerationFailureEvent is emitted after a failed pull was counted.
type GenerationFailureEvent struct {
	SubrunIndex int

	// Err is the error returned by the source.
	Err error

	// Failures is the run-wide failure count, including this one.
	Failures int64

	// State is the abort policy state after this failure.
	State AbortState

	// ExceededLimit is the limit that aborted the run, or nil.
	ExceededLimit *Limit

	// Duration is how long the failed pull took.
	Duration time.Duration
}

func (GenerationFailureEvent) hookEvent() {}
