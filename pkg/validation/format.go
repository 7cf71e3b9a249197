// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/biomass-estimator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateSection checks if section names an exportable table.
func ValidateSection(section string) error {
	switch section {
	case constants.SectionFactory, constants.SectionRisk, constants.SectionCarbon,
		constants.SectionScenario, constants.SectionCatalog:
		return nil
	}
	return fmt.Errorf("expected export section of %s, %s, %s, %s or %s, got %s",
		constants.SectionFactory, constants.SectionRisk, constants.SectionCarbon,
		constants.SectionScenario, constants.SectionCatalog, section)
}
