// Package hooks provides a registry for run lifecycle hooks.
//
// Each hook interface corresponds to a specific event type. Implement only
// the interfaces you need:
//   - [xsec.BeforeRunHook] - Called once before the first subrun
//   - [xsec.AfterRunHook] - Called once after the run ends
//   - [xsec.BeforeSubrunHook] - Called after a subrun's source was initialized
//   - [xsec.AfterSubrunHook] - Called when a subrun's pull loop ends
//   - [xsec.EventExportedHook] - Called after every exported event
//   - [xsec.GenerationFailureHook] - Called after every failed pull
//
// # Creating a Hook
//
//	type FailureCounter struct {
//	    failures []error
//	}
//
//	func (h *FailureCounter) OnGenerationFailure(
//	    ctx context.Context,
//	    runCtx *xsec.RunContext,
//	    e xsec.GenerationFailureEvent,
//	) {
//	    h.failures = append(h.failures, e.Err)
//	}
//
//	registry := hooks.NewRegistry()
//	registry.Register(&FailureCounter{})
//	exec := executor.New(source, sink, executor.DefaultConfig()).WithHooks(registry)
package hooks
