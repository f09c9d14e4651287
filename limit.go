package xsec

// LimitType specifies how to match keys for limit checking.
type LimitType string

const (
	// LimitExactKey matches an exact key.
	// Use for run-wide counters like KeyGenerationFailures.
	LimitExactKey LimitType = "exact"

	// LimitKeyPrefix matches any key with the given prefix.
	// Use for per-subrun limits (e.g., KeyGenerationFailuresFor matches the
	// failure counter of every subrun).
	LimitKeyPrefix LimitType = "prefix"
)

// DefaultTimesAllowErrors is the default number of generation failures a run
// tolerates before it is aborted.
const DefaultTimesAllowErrors = 10

// Limit defines a threshold that aborts the run.
//
// Limits are checked by the [AbortPolicy] after every failed pull. The
// comparison is currentValue > MaxValue (not >=), so a ceiling of 3 allows
// three failures and aborts on the fourth.
//
//	// Abort after more than 10 failures in the whole run
//	{Type: LimitExactKey, Key: KeyGenerationFailures, MaxValue: 10}
//
//	// Abort if any single subrun sees more than 5 failures
//	{Type: LimitKeyPrefix, Key: KeyGenerationFailuresFor, MaxValue: 5}
//
//	// Abort after more than 3 failures in a row
//	{Type: LimitExactKey, Key: KeyGenerationFailuresConsecutive, MaxValue: 3}
type Limit struct {
	// Type specifies how to match keys (exact or prefix).
	Type LimitType `yaml:"type"`

	// Key is the exact key or prefix to match.
	Key StatKey `yaml:"key"`

	// MaxValue is the threshold. For counters the int64 value is compared
	// as float64.
	MaxValue float64 `yaml:"max_value"`
}

// CeilingLimit returns the run-wide failure limit for the given ceiling.
func CeilingLimit(ceiling int) Limit {
	return Limit{Type: LimitExactKey, Key: KeyGenerationFailures, MaxValue: float64(ceiling)}
}

// DefaultLimits returns the limits applied when none are configured: a
// run-wide ceiling of [DefaultTimesAllowErrors] generation failures.
func DefaultLimits() []Limit {
	return []Limit{CeilingLimit(DefaultTimesAllowErrors)}
}
