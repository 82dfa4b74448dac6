// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/fte-report/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %q",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateTierKey checks the tier key granularity used by the course report.
func ValidateTierKey(key string) error {
	if key != constants.TierKeyCourse && key != constants.TierKeyPrefix {
		return fmt.Errorf("expected tier key of %s or %s, got %q",
			constants.TierKeyCourse, constants.TierKeyPrefix, key)
	}
	return nil
}
