// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/fte-report/pkg/constants"
)

// RoundHalfEven rounds a value to the given number of decimals, sending
// exact ties to the even neighbour.
func RoundHalfEven(val float64, places int) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(val*scale) / scale
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// CalculatePercentage calculates what percentage value is of total.
// The second result is false when total is zero or either input is not finite.
func CalculatePercentage(value, total float64) (float64, bool) {
	if total == 0 || !IsFinite(value) || !IsFinite(total) {
		return 0, false
	}
	return (value / total) * constants.PercentageMultiplier, true
}
