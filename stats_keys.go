package xsec

import "strconv"

// StatKey names a counter or gauge in [Stats].
type StatKey string

// Standard key prefix for all xsec keys.
// Use your own prefix (e.g., "myapp:") for custom metrics to avoid collisions.
const KeyPrefix = "xsec:"

// Pull tracking keys.
const (
	KeyPulls               StatKey = "xsec:pulls"
	KeyAcceptedEvents      StatKey = "xsec:accepted_events"
	KeyAcceptedEventsFor   StatKey = "xsec:accepted_events:"   // + subrun index
	KeyZeroWeightEvents    StatKey = "xsec:zero_weight_events"
	KeyZeroWeightEventsFor StatKey = "xsec:zero_weight_events:" // + subrun index
)

// Generation failure tracking keys.
//
// KeyGenerationFailures is the run-wide failure counter consulted by the
// default abort limit. It is never reset.
// KeyGenerationFailuresConsecutive is a gauge reset by every successful pull;
// it only aborts a run if a limit is configured for it.
const (
	KeyGenerationFailures            StatKey = "xsec:generation_failures"
	KeyGenerationFailuresFor         StatKey = "xsec:generation_failures:" // + subrun index
	KeyGenerationFailuresConsecutive StatKey = "xsec:generation_failures_consecutive"
)

// Subrun tracking keys.
const (
	KeySubrunsStarted   StatKey = "xsec:subruns_started"
	KeySubrunsCompleted StatKey = "xsec:subruns_completed"
	KeyEndOfInput       StatKey = "xsec:end_of_input"
)

// For appends a subrun index to a per-subrun key prefix.
//
//	KeyGenerationFailuresFor.For(2) // "xsec:generation_failures:2"
func (k StatKey) For(subrun int) StatKey {
	return k + StatKey(strconv.Itoa(subrun))
}
