package xsec

import "fmt"

// UnitScale converts the source's cross-section units into archive units.
const UnitScale = 1e9

// Strategy is the weighting strategy code reported by an event source.
// The sign carries no meaning for normalization.
type Strategy int

// Weighted reports whether raw weights come from a non-uniform sampling
// scheme (|code| == 4).
func (s Strategy) Weighted() bool {
	return s == 4 || s == -4
}

// NormalizationFactor returns the factor that turns a raw weight into a
// contribution to the total cross section.
//
// Weighted strategies use 1/(K·n); all others use X/(K·n), where X is the
// inclusive cross section and n the nominal event target. A target of zero
// or less is a configuration error.
func NormalizationFactor(strategy Strategy, inclusive float64, target int) (float64, error) {
	if target <= 0 {
		return 0, fmt.Errorf("%w: nominal event target must be positive, got %d",
			ErrConfiguration, target)
	}
	denom := UnitScale * float64(target)
	if strategy.Weighted() {
		return 1 / denom, nil
	}
	return inclusive / denom, nil
}

// Normalizer holds the normalization factor of one subrun.
type Normalizer struct {
	strategy Strategy
	factor   float64
}

// NewNormalizer computes the factor for a subrun. See [NormalizationFactor].
func NewNormalizer(strategy Strategy, inclusive float64, target int) (*Normalizer, error) {
	f, err := NormalizationFactor(strategy, inclusive, target)
	if err != nil {
		return nil, err
	}
	return &Normalizer{strategy: strategy, factor: f}, nil
}

// Factor returns the normalization factor.
func (n *Normalizer) Factor() float64 {
	return n.factor
}

// Contribution returns w scaled by the normalization factor.
func (n *Normalizer) Contribution(w float64) float64 {
	return w * n.factor
}
