package xsec

import "context"

// -----------------------------------------------------------------------------
// Executor Hook Interfaces
// -----------------------------------------------------------------------------
//
// Hooks observe a run at various points. To use hooks:
//
//  1. Implement the desired hook interface(s)
//  2. Register with hooks.Registry (or executor.RegisterHook)
//
// Example:
//
//	type ProgressHook struct {
//	    out io.Writer
//	}
//
//	func (h *ProgressHook) OnAfterSubrun(ctx context.Context, runCtx *RunContext, e AfterSubrunEvent) {
//	    fmt.Fprintf(h.out, "subrun %d: %d events\n", e.Result.Index, e.Result.Accepted)
//	}
//
// # Hook Execution Order
//
// Hooks are called in registration order. AfterRun is always called if
// BeforeRun was called, even when the run ends with an error.
//
// # Error Handling
//
// Hooks do not return errors. A panicking hook stops the run.
// -----------------------------------------------------------------------------

// BeforeRunHook is notified once before the first subrun.
type BeforeRunHook interface {
	OnBeforeRun(ctx context.Context, runCtx *RunContext, event BeforeRunEvent)
}

// AfterRunHook is notified once after the run ends (completed, aborted or
// failed).
type AfterRunHook interface {
	OnAfterRun(ctx context.Context, runCtx *RunContext, event AfterRunEvent)
}

// BeforeSubrunHook is notified after a subrun's source was initialized.
type BeforeSubrunHook interface {
	OnBeforeSubrun(ctx context.Context, runCtx *RunContext, event BeforeSubrunEvent)
}

// AfterSubrunHook is notified when a subrun's pull loop ends. It is also
// called for the subrun that aborted the run.
type AfterSubrunHook interface {
	OnAfterSubrun(ctx context.Context, runCtx *RunContext, event AfterSubrunEvent)
}

// EventExportedHook is notified after every event written to the sink.
// It runs on the hot path; keep it cheap.
type EventExportedHook interface {
	OnEventExported(ctx context.Context, runCtx *RunContext, event EventExportedEvent)
}

// GenerationFailureHook is notified after every failed pull that was not
// end of input.
type GenerationFailureHook interface {
	OnGenerationFailure(ctx context.Context, runCtx *RunContext, event GenerationFailureEvent)
}
