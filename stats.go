package xsec

import (
	"strings"
	"sync"
)

// Stats contains counters and gauges for tracking a run. All standard
// xsec metrics use keys prefixed with "xsec:" (see stats_keys.go).
//
// # Counters vs Gauges
//
// Counters are monotonically increasing. Gauges can go up and down (via
// [Stats.IncrGauge], [Stats.SetGauge], [Stats.ResetGauge]); use them for
// values that reset, such as consecutive failure counts.
//
// # Limits
//
// Stats do not check limits themselves. The [AbortPolicy] reads them after
// every failed pull.
//
// All methods are safe for concurrent use.
type Stats struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
	}
}

// IncrCounter increments a counter by delta. Creates the counter if it
// doesn't exist.
//
// Panics if delta is negative (counters only go up).
func (s *Stats) IncrCounter(key StatKey, delta int64) {
	if delta < 0 {
		panic("xsec: IncrCounter called with negative delta")
	}
	s.mu.Lock()
	s.counters[string(key)] += delta
	s.mu.Unlock()
}

// GetCounter returns the current value of a counter, or 0 if not set.
func (s *Stats) GetCounter(key StatKey) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[string(key)]
}

// IncrGauge increments a gauge by delta (positive or negative).
func (s *Stats) IncrGauge(key StatKey, delta float64) {
	s.mu.Lock()
	s.gauges[string(key)] += delta
	s.mu.Unlock()
}

// SetGauge sets a gauge to a specific value.
func (s *Stats) SetGauge(key StatKey, value float64) {
	s.mu.Lock()
	s.gauges[string(key)] = value
	s.mu.Unlock()
}

// GetGauge returns the current value of a gauge, or 0.0 if not set.
func (s *Stats) GetGauge(key StatKey) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gauges[string(key)]
}

// ResetGauge sets a gauge to 0.0.
func (s *Stats) ResetGauge(key StatKey) {
	s.mu.Lock()
	s.gauges[string(key)] = 0
	s.mu.Unlock()
}

// Counters returns a copy of all counters.
func (s *Stats) Counters() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		result[k] = v
	}
	return result
}

// Gauges returns a copy of all gauges.
func (s *Stats) Gauges() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]float64, len(s.gauges))
	for k, v := range s.gauges {
		result[k] = v
	}
	return result
}

// exceeds reports whether any stat matched by l is above its MaxValue.
// Counters and gauges are both considered.
func (s *Stats) exceeds(l Limit) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch l.Type {
	case LimitExactKey:
		if v, ok := s.counters[string(l.Key)]; ok && float64(v) > l.MaxValue {
			return true
		}
		if v, ok := s.gauges[string(l.Key)]; ok && v > l.MaxValue {
			return true
		}
	case LimitKeyPrefix:
		prefix := string(l.Key)
		for k, v := range s.counters {
			if strings.HasPrefix(k, prefix) && float64(v) > l.MaxValue {
				return true
			}
		}
		for k, v := range s.gauges {
			if strings.HasPrefix(k, prefix) && v > l.MaxValue {
				return true
			}
		}
	}
	return false
}

// GetGenerationFailures returns the run-wide generation failure count.
func (s *Stats) GetGenerationFailures() int64 {
	return s.GetCounter(KeyGenerationFailures)
}

// GetAcceptedEvents returns the number of exported events over the run.
func (s *Stats) GetAcceptedEvents() int64 {
	return s.GetCounter(KeyAcceptedEvents)
}

// GetZeroWeightEvents returns the number of discarded zero-weight events.
func (s *Stats) GetZeroWeightEvents() int64 {
	return s.GetCounter(KeyZeroWeightEvents)
}
