// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
	"strconv"

	"github.com/iwvelando/biomass-estimator/pkg/constants"
)

// RoundTo rounds the exact binary value of val to the given number of decimal
// places, ties to even. 10.045 is stored just below the tie and becomes 10.04.
func RoundTo(val float64, places int32) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(val, 'f', int(places), 64), 64)
	if err != nil || rounded == 0 {
		return 0
	}
	return rounded
}

// SafeDivide returns numerator/denominator, or 0 when the denominator is zero.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
