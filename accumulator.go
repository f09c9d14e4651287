package xsec

import "math"

// Estimate is a cross section together with its statistical error.
type Estimate struct {
	CrossSection float64 `yaml:"cross_section"`
	Error        float64 `yaml:"error"`
}

// sums is one accumulation context.
type sums struct {
	sum        float64
	sumSquares float64
}

func (s *sums) add(c float64) {
	s.sum += c
	s.sumSquares += c * c
}

func (s sums) estimate() Estimate {
	return Estimate{CrossSection: s.sum, Error: math.Sqrt(s.sumSquares)}
}

// Accumulator keeps running sums of normalized contributions.
//
// It has two contexts. The total context lives for the whole run and is never
// reset. The sample context covers a single subrun and is zeroed by
// ResetSample. The error of either context is the square root of its sum of
// squared contributions.
//
// Accumulator is not safe for concurrent use. A run owns exactly one.
type Accumulator struct {
	total  sums
	sample sums
}

// NewAccumulator creates an Accumulator with both contexts at zero.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// ResetSample zeroes the sample context. The total context is untouched.
func (a *Accumulator) ResetSample() {
	a.sample = sums{}
}

// Add adds c to both contexts. Adding zero is a no-op; callers are still
// expected to drop zero-weight events before normalizing them.
func (a *Accumulator) Add(c float64) {
	if c == 0 {
		return
	}
	a.total.add(c)
	a.sample.add(c)
}

// Total returns the estimate over the whole run so far.
func (a *Accumulator) Total() Estimate {
	return a.total.estimate()
}

// Sample returns the estimate over the current subrun so far.
func (a *Accumulator) Sample() Estimate {
	return a.sample.estimate()
}
