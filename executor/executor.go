package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickchristie/xsec"
	"github.com/rickchristie/xsec/hooks"
)

// Config holds configuration options for the Executor.
type Config struct {
	// TimeProvider times runs and subruns. Defaults to the system clock.
	TimeProvider xsec.TimeProvider
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{TimeProvider: xsec.NewDefaultTimeProvider()}
}

// Executor runs subruns against an EventSource and exports accepted events to
// an EventSink.
//
// The Executor is responsible for:
//   - Initializing the source for every subrun, in index order
//   - Pulling, normalizing, accumulating and exporting events
//   - Counting generation failures against the run's limits
//   - Invoking lifecycle hooks at appropriate points
//
// Limits are configured on the RunContext, not the Executor, so a single
// failure budget spans every subrun of the run.
type Executor struct {
	source xsec.EventSource
	sink   xsec.EventSink
	config Config
	hooks  *hooks.Registry
}

// New creates a new Executor with the given source, sink and configuration.
func New(source xsec.EventSource, sink xsec.EventSink, config Config) *Executor {
	if config.TimeProvider == nil {
		config.TimeProvider = xsec.NewDefaultTimeProvider()
	}
	return &Executor{
		source: source,
		sink:   sink,
		config: config,
		hooks:  hooks.NewRegistry(),
	}
}

// WithHooks replaces the executor's hook registry with the provided one.
// Returns the executor for chaining.
func (e *Executor) WithHooks(h *hooks.Registry) *Executor {
	e.hooks = h
	return e
}

// RegisterHook adds a hook to the executor's existing hook registry.
// Returns the executor for chaining.
//
//	exec := executor.New(source, sink, config).
//	    RegisterHook(report.NewConsoleHook(os.Stdout)).
//	    RegisterHook(&MetricsHook{})
func (e *Executor) RegisterHook(hook any) *Executor {
	e.hooks.Register(hook)
	return e
}

// Execute runs every subrun in order.
//
// The execution flow:
//  1. Call BeforeRun hooks
//  2. Run each subrun until its target is met, its input ends, or a limit
//     is exceeded
//  3. Stop early when a subrun exceeds a limit; the result is then not
//     Completed
//  4. Call AfterRun hooks
//
// An aborted run is not an error: the returned result has Completed set to
// false and err is nil. Errors are fatal conditions (invalid configuration,
// source initialization failure, sink failure); the partial result is still
// returned with them.
func (e *Executor) Execute(
	ctx context.Context,
	runCtx *xsec.RunContext,
	subruns []xsec.SubrunConfig,
) (*xsec.RunResult, error) {
	clock := e.config.TimeProvider
	runCtx.Start(clock.Now())

	result := &xsec.RunResult{
		Completed: true,
		Subruns:   make([]xsec.SubrunResult, 0, len(subruns)),
	}
	reason := xsec.TerminationCompleted
	var runErr error

	// AfterRun always follows BeforeRun
	defer func() {
		result.Total = runCtx.Accumulator().Total()
		runCtx.SetTermination(reason, result, runErr, clock.Now())
		e.hooks.FireAfterRun(ctx, runCtx, xsec.AfterRunEvent{
			TerminationReason: reason,
			Result:            result,
			Error:             runErr,
		})
	}()

	e.hooks.FireBeforeRun(ctx, runCtx, xsec.BeforeRunEvent{Subruns: len(subruns)})

	for _, cfg := range subruns {
		subResult, aborted, err := e.runSubrun(ctx, runCtx, cfg)
		if err != nil {
			reason = xsec.TerminationError
			runErr = err
			result.Completed = false
			return result, err
		}
		if aborted {
			reason = xsec.TerminationAborted
			result.Completed = false
			result.ExceededLimit = runCtx.ExceededLimit()
			return result, nil
		}
		result.Subruns = append(result.Subruns, subResult)
	}

	return result, nil
}

// runSubrun drives one subrun. It returns aborted=true when a limit was
// exceeded; the caller must not start further subruns in that case.
func (e *Executor) runSubrun(
	ctx context.Context,
	runCtx *xsec.RunContext,
	cfg xsec.SubrunConfig,
) (xsec.SubrunResult, bool, error) {
	clock := e.config.TimeProvider
	result := xsec.SubrunResult{Index: cfg.Index}

	if err := cfg.Validate(); err != nil {
		return result, false, err
	}

	start := clock.Now()
	if err := e.source.Init(ctx, cfg); err != nil {
		return result, false, fmt.Errorf("initializing subrun %d: %w", cfg.Index, err)
	}

	subrun := xsec.NewSubrun(cfg, e.source.Strategy(), e.source.ProcessCrossSections())
	norm, err := xsec.NewNormalizer(subrun.Strategy, subrun.Inclusive, cfg.TargetEvents)
	if err != nil {
		return result, false, fmt.Errorf("subrun %d: %w", cfg.Index, err)
	}

	acc := runCtx.Accumulator()
	runCtx.BeginSubrun(subrun)
	e.hooks.FireBeforeSubrun(ctx, runCtx, xsec.BeforeSubrunEvent{
		Subrun: subrun,
		Factor: norm.Factor(),
	})

	aborted := false
	target := int64(cfg.TargetEvents)
	for result.Accepted < target {
		pullStart := clock.Now()
		ev, err := e.source.Next(ctx)
		if err != nil {
			if errors.Is(err, xsec.ErrEndOfInput) {
				result.EndOfInput = true
				runCtx.RecordEndOfInput()
				break
			}

			result.Failures++
			state := runCtx.RecordGenerationFailure(cfg.Index)
			e.hooks.FireGenerationFailure(ctx, runCtx, xsec.GenerationFailureEvent{
				SubrunIndex:   cfg.Index,
				Err:           err,
				Failures:      runCtx.Stats().GetGenerationFailures(),
				State:         state,
				ExceededLimit: runCtx.ExceededLimit(),
				Duration:      clock.Now().Sub(pullStart),
			})
			if state == xsec.AbortAborted {
				aborted = true
				break
			}
			continue
		}

		w := ev.Weight()
		if w == 0 {
			result.ZeroWeight++
			runCtx.RecordZeroWeight(cfg.Index)
			continue
		}

		c := norm.Contribution(w)
		acc.Add(c)
		total := acc.Total()

		// The sink must see the cross section before the event it applies to
		if err := e.sink.SetCrossSection(total); err != nil {
			runCtx.EndSubrun(false)
			return result, false, fmt.Errorf("subrun %d: setting cross section: %w", cfg.Index, err)
		}
		if err := e.sink.WriteEvent(ev); err != nil {
			runCtx.EndSubrun(false)
			return result, false, fmt.Errorf("subrun %d: writing event: %w", cfg.Index, err)
		}

		result.Accepted++
		runCtx.RecordAccepted(cfg.Index)
		e.hooks.FireEventExported(ctx, runCtx, xsec.EventExportedEvent{
			SubrunIndex:  cfg.Index,
			Accepted:     result.Accepted,
			Weight:       w,
			Contribution: c,
			Total:        total,
		})
	}

	result.Estimate = acc.Sample()
	result.Duration = clock.Now().Sub(start)
	runCtx.EndSubrun(!aborted)

	e.hooks.FireAfterSubrun(ctx, runCtx, xsec.AfterSubrunEvent{
		Result:  result,
		Aborted: aborted,
		Total:   acc.Total(),
	})

	return result, aborted, nil
}
