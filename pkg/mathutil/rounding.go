// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/shopspring/decimal"
)

// FloorToUnit rounds a value down to the nearest multiple of unit. A
// non-positive unit leaves the value untouched.
func FloorToUnit(val, unit float64) float64 {
	if unit <= 0 || !IsFinite(val) || !IsFinite(unit) {
		return val
	}
	u := decimal.NewFromFloat(unit)
	floored, _ := decimal.NewFromFloat(val).Div(u).Floor().Mul(u).Float64()
	return floored
}

// FloorCommitment floors an amount to the configured commitment rounding unit
// and never returns a negative amount.
func FloorCommitment(val float64) float64 {
	if val <= 0 {
		return 0
	}
	return FloorToUnit(val, constants.RoundingUnit)
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}




// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// SafeDivide divides numerator by denominator and returns 0 when the
// denominator is zero.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Clamp bounds value to [lower, upper].
func Clamp(value, lower, upper float64) float64 {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

