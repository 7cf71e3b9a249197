// Package validation provides configuration validation utilities.
package validation

import "fmt"

// ValidateRange returns a warning when value falls outside [min, max]. The
// value is still used; the warning only flags that it is beyond the range the
// dashboard inputs allow.
func ValidateRange(field string, value, min, max float64) string {
	if value < min || value > max {
		return fmt.Sprintf("%s %v is outside the expected range %v-%v", field, value, min, max)
	}
	return ""
}

// ValidateNonNegative returns a warning for negative quantities.
func ValidateNonNegative(field string, value float64) string {
	if value < 0 {
		return fmt.Sprintf("%s %v is negative", field, value)
	}
	return ""
}

// Collect appends the non-empty warnings to warnings.
func Collect(warnings []string, candidates ...string) []string {
	for _, w := range candidates {
		if w != "" {
			warnings = append(warnings, w)
		}
	}
	return warnings
}
