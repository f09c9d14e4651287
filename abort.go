package xsec

// AbortState is the state of an [AbortPolicy].
type AbortState int

const (
	// AbortRunning means the run may continue.
	AbortRunning AbortState = iota

	// AbortAborted means a limit was exceeded. The state is final.
	AbortAborted
)

func (s AbortState) String() string {
	switch s {
	case AbortRunning:
		return "running"
	case AbortAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// AbortPolicy decides when generation failures make a run unrecoverable.
//
// The policy is consulted after every failed pull that is not end of input.
// Successful pulls never move it back: the run-wide failure counter is not
// reset, so sparse failures over a long run still add up.
type AbortPolicy struct {
	limits   []Limit
	state    AbortState
	exceeded *Limit
}

// NewAbortPolicy creates a policy checking the given limits.
// With no limits it uses [DefaultLimits].
func NewAbortPolicy(limits ...Limit) *AbortPolicy {
	if len(limits) == 0 {
		limits = DefaultLimits()
	}
	return &AbortPolicy{limits: limits}
}

// Limits returns the configured limits.
func (p *AbortPolicy) Limits() []Limit {
	result := make([]Limit, len(p.limits))
	copy(result, p.limits)
	return result
}

// Check compares stats against every limit and moves the policy to
// [AbortAborted] on the first one exceeded.
func (p *AbortPolicy) Check(stats *Stats) AbortState {
	if p.state == AbortAborted {
		return p.state
	}
	for i := range p.limits {
		if stats.exceeds(p.limits[i]) {
			l := p.limits[i]
			p.exceeded = &l
			p.state = AbortAborted
			break
		}
	}
	return p.state
}

// State returns the current state.
func (p *AbortPolicy) State() AbortState {
	return p.state
}

// ExceededLimit returns the limit that aborted the run, or nil.
func (p *AbortPolicy) ExceededLimit() *Limit {
	return p.exceeded
}
