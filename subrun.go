package xsec

import (
	"fmt"
	"time"
)

// SubrunConfig configures one subrun. It is immutable once the subrun starts.
type SubrunConfig struct {
	// Index is the position of the subrun in the run (0-indexed).
	Index int `yaml:"index"`

	// TargetEvents is the nominal number of accepted events for the subrun.
	// It also sets the normalization of every contribution.
	TargetEvents int `yaml:"target_events"`

	// Input identifies the subrun's input for the source (e.g., an LHEF path).
	Input string `yaml:"input,omitempty"`
}

// Validate checks the configuration before the source is initialized.
func (c SubrunConfig) Validate() error {
	if c.TargetEvents <= 0 {
		return fmt.Errorf("%w: subrun %d: nominal event target must be positive, got %d",
			ErrConfiguration, c.Index, c.TargetEvents)
	}
	return nil
}

// Subrun describes an initialized subrun: its configuration plus what the
// source declared for it.
type Subrun struct {
	Config               SubrunConfig
	Strategy             Strategy
	ProcessCrossSections []float64

	// Inclusive is the sum of ProcessCrossSections.
	Inclusive float64
}

// NewSubrun builds the descriptor of an initialized subrun.
func NewSubrun(cfg SubrunConfig, strategy Strategy, processXS []float64) *Subrun {
	var inclusive float64
	for _, xs := range processXS {
		inclusive += xs
	}
	return &Subrun{
		Config:               cfg,
		Strategy:             strategy,
		ProcessCrossSections: processXS,
		Inclusive:            inclusive,
	}
}

// SubrunResult is the outcome of a single subrun.
type SubrunResult struct {
	Index int `yaml:"index"`

	// Estimate is the subrun's own (sample) cross section and error.
	Estimate Estimate `yaml:"estimate"`

	// Accepted is the number of exported events.
	Accepted int64 `yaml:"accepted"`

	// ZeroWeight is the number of discarded zero-weight events.
	ZeroWeight int64 `yaml:"zero_weight"`

	// Failures is the number of generation failures seen in this subrun.
	Failures int64 `yaml:"failures"`

	// EndOfInput is true when the source ran out of events before the
	// target was reached.
	EndOfInput bool `yaml:"end_of_input"`

	Duration time.Duration `yaml:"duration"`
}

// RunResult is the outcome of a whole run.
type RunResult struct {
	// Completed is false when the run was aborted by a limit.
	Completed bool `yaml:"completed"`

	// Total is the estimate over every accepted event of the run, including
	// events of a subrun that was later aborted.
	Total Estimate `yaml:"total"`

	// Subruns holds the results of the subruns that finished, in order.
	// An aborted subrun is not included.
	Subruns []SubrunResult `yaml:"subruns"`

	// ExceededLimit is the limit that aborted the run, or nil.
	ExceededLimit *Limit `yaml:"exceeded_limit,omitempty"`
}

// Err returns an error wrapping [ErrRunAborted] when the run did not
// complete, and nil otherwise. Callers decide whether an aborted run is
// a failure.
func (r *RunResult) Err() error {
	if r == nil || r.Completed {
		return nil
	}
	if r.ExceededLimit != nil {
		return fmt.Errorf("%w: limit exceeded: %s > %v",
			ErrRunAborted, r.ExceededLimit.Key, r.ExceededLimit.MaxValue)
	}
	return ErrRunAborted
}
