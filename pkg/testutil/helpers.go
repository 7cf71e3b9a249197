// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/biomass-estimator/pkg/estimate"
	"github.com/iwvelando/biomass-estimator/pkg/output"
)

// FindMetric finds a results-table metric by label.
// Returns a pointer to the metric if found, nil otherwise.
func FindMetric(metrics []output.Metric, label string) *output.Metric {
	for i := range metrics {
		if metrics[i].Label == label {
			return &metrics[i]
		}
	}
	return nil
}

// FindCostLine finds a factory setup cost line by category.
// Returns a pointer to the line if found, nil otherwise.
func FindCostLine(lines []estimate.CostLine, category string) *estimate.CostLine {
	for i := range lines {
		if lines[i].Category == category {
			return &lines[i]
		}
	}
	return nil
}

// NearlyEqual reports whether a and b differ by at most tolerance.
func NearlyEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
