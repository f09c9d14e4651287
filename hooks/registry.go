package hooks

import (
	"context"

	"github.com/rickchristie/xsec"
)

// Registry manages a collection of hooks and dispatches events to them.
//
// Hooks can implement any combination of hook interfaces; they only receive
// events for the interfaces they implement. Hooks are called in the order
// they are registered.
//
// Registry is NOT thread-safe. Register all hooks before starting a run.
// Fire methods should only be called by the executor.
type Registry struct {
	hooks []any
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make([]any, 0),
	}
}

// Register adds a hook to the registry.
func (r *Registry) Register(hook any) *Registry {
	r.hooks = append(r.hooks, hook)
	return r
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	return len(r.hooks)
}

// FireBeforeRun dispatches a BeforeRunEvent to all registered
// BeforeRunHook implementations.
func (r *Registry) FireBeforeRun(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.BeforeRunEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(xsec.BeforeRunHook); ok {
			hook.OnBeforeRun(ctx, runCtx, event)
		}
	}
}

// FireAfterRun dispatches an AfterRunEvent to all registered
// AfterRunHook implementations.
func (r *Registry) FireAfterRun(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.AfterRunEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(xsec.AfterRunHook); ok {
			hook.OnAfterRun(ctx, runCtx, event)
		}
	}
}

// FireBeforeSubrun dispatches a BeforeSubrunEvent to all registered
// BeforeSubrunHook implementations.
func (r *Registry) FireBeforeSubrun(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.BeforeSubrunEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(xsec.BeforeSubrunHook); ok {
			hook.OnBeforeSubrun(ctx, runCtx, event)
		}
	}
}

// FireAfterSubrun dispatches an AfterSubrunEvent to all registered
// AfterSubrunHook implementations.
func (r *Registry) FireAfterSubrun(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.AfterSubrunEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(xsec.AfterSubrunHook); ok {
			hook.OnAfterSubrun(ctx, runCtx, event)
		}
	}
}

// FireEventExported dispatches an EventExportedEvent to all registered
// EventExportedHook implementations.
func (r *Registry) FireEventExported(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.EventExportedEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(xsec.EventExportedHook); ok {
			hook.OnEventExported(ctx, runCtx, event)
		}
	}
}

// FireGenerationFailure dispatches a GenerationFailureEvent to all
// registered GenerationFailureHook implementations.
func (r *Registry) FireGenerationFailure(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.GenerationFailureEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(xsec.GenerationFailureHook); ok {
			hook.OnGenerationFailure(ctx, runCtx, event)
		}
	}
}
