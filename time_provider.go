package xsec

import "time"

// TimeProvider supplies the clock used for run and subrun timing.
// Inject a MockTimeProvider for deterministic durations in tests.
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time
}

// DefaultTimeProvider is the standard TimeProvider using the system clock.
type DefaultTimeProvider struct{}

// NewDefaultTimeProvider creates a new DefaultTimeProvider.
func NewDefaultTimeProvider() *DefaultTimeProvider {
	return &DefaultTimeProvider{}
}

// Now returns the current system time.
func (p *DefaultTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a TimeProvider that returns a fixed time, optionally
// advancing by a step on every call.
type MockTimeProvider struct {
	fixedTime time.Time
	step      time.Duration
}

// NewMockTimeProvider creates a MockTimeProvider with the given fixed time.
func NewMockTimeProvider(t time.Time) *MockTimeProvider {
	return &MockTimeProvider{fixedTime: t}
}

// WithStep makes every Now call advance the clock by d after returning.
func (m *MockTimeProvider) WithStep(d time.Duration) *MockTimeProvider {
	m.step = d
	return m
}

// SetTime updates the time returned by the next Now call.
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.fixedTime = t
}

// Now returns the current mock time and advances it by the step.
func (m *MockTimeProvider) Now() time.Time {
	t := m.fixedTime
	m.fixedTime = m.fixedTime.Add(m.step)
	return t
}

// Compile-time checks.
var (
	_ TimeProvider = (*DefaultTimeProvider)(nil)
	_ TimeProvider = (*MockTimeProvider)(nil)
)
