package xsec

import (
	"sync"
	"time"
)

// TerminationReason indicates why a run ended.
type TerminationReason string

const (
	// TerminationCompleted means every subrun finished, by reaching its
	// target or its end of input.
	TerminationCompleted TerminationReason = "completed"

	// TerminationAborted means a limit was exceeded.
	TerminationAborted TerminationReason = "aborted"

	// TerminationError means a fatal error stopped the run (configuration,
	// source initialization or sink failure).
	TerminationError TerminationReason = "error"
)

// RunContext holds the state shared by every subrun of a run: the
// accumulator, the stats and the abort policy.
//
// It is passed to hooks, which may read it freely. Only the executor
// should mutate it.
type RunContext struct {
	mu sync.RWMutex

	// Run name (e.g., "main")
	name string

	acc    *Accumulator
	stats  *Stats
	policy *AbortPolicy

	// Subrun currently executing (nil between subruns)
	subrun *Subrun

	startTime time.Time
	endTime   time.Time

	terminationReason TerminationReason
	result            *RunResult
	err               error
}

// NewRunContext creates a RunContext with the default limits.
func NewRunContext(name string) *RunContext {
	return &RunContext{
		name:   name,
		acc:    NewAccumulator(),
		stats:  NewStats(),
		policy: NewAbortPolicy(),
	}
}

// Name returns the name of the run.
func (c *RunContext) Name() string {
	return c.name
}

// Accumulator returns the run's accumulator.
func (c *RunContext) Accumulator() *Accumulator {
	return c.acc
}

// Stats returns the run's stats.
func (c *RunContext) Stats() *Stats {
	return c.stats
}

// SetLimits replaces the abort policy with one checking limits.
// An empty slice restores [DefaultLimits]. Call before execution starts.
func (c *RunContext) SetLimits(limits []Limit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = NewAbortPolicy(limits...)
}

// Limits returns the limits of the abort policy.
func (c *RunContext) Limits() []Limit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy.Limits()
}

// AbortState returns the state of the abort policy.
func (c *RunContext) AbortState() AbortState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy.State()
}

// ExceededLimit returns the limit that aborted the run, or nil.
func (c *RunContext) ExceededLimit() *Limit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy.ExceededLimit()
}

// -----------------------------------------------------------------------------
// Subrun bookkeeping (called by the executor)
// -----------------------------------------------------------------------------

// BeginSubrun marks s as the running subrun and resets the sample context.
func (c *RunContext) BeginSubrun(s *Subrun) {
	c.mu.Lock()
	c.subrun = s
	c.mu.Unlock()
	c.acc.ResetSample()
	c.stats.IncrCounter(KeySubrunsStarted, 1)
}

// EndSubrun clears the running subrun.
func (c *RunContext) EndSubrun(completed bool) {
	c.mu.Lock()
	c.subrun = nil
	c.mu.Unlock()
	if completed {
		c.stats.IncrCounter(KeySubrunsCompleted, 1)
	}
}

// Subrun returns the running subrun, or nil.
func (c *RunContext) Subrun() *Subrun {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subrun
}

// RecordGenerationFailure counts a failed pull for the given subrun and
// consults the abort policy.
func (c *RunContext) RecordGenerationFailure(subrun int) AbortState {
	c.stats.IncrCounter(KeyPulls, 1)
	c.stats.IncrCounter(KeyGenerationFailures, 1)
	c.stats.IncrCounter(KeyGenerationFailuresFor.For(subrun), 1)
	c.stats.IncrGauge(KeyGenerationFailuresConsecutive, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy.Check(c.stats)
}

// RecordZeroWeight counts a discarded zero-weight event.
func (c *RunContext) RecordZeroWeight(subrun int) {
	c.stats.IncrCounter(KeyPulls, 1)
	c.stats.IncrCounter(KeyZeroWeightEvents, 1)
	c.stats.IncrCounter(KeyZeroWeightEventsFor.For(subrun), 1)
	c.stats.ResetGauge(KeyGenerationFailuresConsecutive)
}

// RecordAccepted counts an exported event.
func (c *RunContext) RecordAccepted(subrun int) {
	c.stats.IncrCounter(KeyPulls, 1)
	c.stats.IncrCounter(KeyAcceptedEvents, 1)
	c.stats.IncrCounter(KeyAcceptedEventsFor.For(subrun), 1)
	c.stats.ResetGauge(KeyGenerationFailuresConsecutive)
}

// RecordEndOfInput counts a subrun ended by its source running dry.
func (c *RunContext) RecordEndOfInput() {
	c.stats.IncrCounter(KeyEndOfInput, 1)
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start records the start time of the run.
func (c *RunContext) Start(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = now
}

// SetTermination records why the run ended and its result.
func (c *RunContext) SetTermination(reason TerminationReason, result *RunResult, err error, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terminationReason = reason
	c.result = result
	c.err = err
	c.endTime = now
}

// TerminationReason returns why the run ended ("" while running).
func (c *RunContext) TerminationReason() TerminationReason {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.terminationReason
}

// Result returns the final result, or nil while running.
func (c *RunContext) Result() *RunResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Error returns the fatal error that ended the run, if any.
func (c *RunContext) Error() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Duration returns the run duration, or zero while running.
func (c *RunContext) Duration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.endTime.IsZero() {
		return 0
	}
	return c.endTime.Sub(c.startTime)
}
