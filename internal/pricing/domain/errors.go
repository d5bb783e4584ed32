package domain

import "errors"

var (
	// ErrInvalidTierBounds marks a tier whose lower bound meets or exceeds
	// its upper bound. Malformed tier lists cannot be salvaged without
	// producing misleading totals, so this is fatal to the computation.
	ErrInvalidTierBounds = errors.New("invalid_tier_bounds")

	// ErrQuantityBelowTier marks a selection quantity below the matched
	// tier's lower bound.
	ErrQuantityBelowTier = errors.New("quantity_below_tier_minimum")
)
