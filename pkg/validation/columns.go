package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Table names used in structural errors.
const (
	TableSections     = "sections"
	TableContactHours = "contact hours"
	TableTiers        = "tiers"
)

// StructuralError reports that an input table is the wrong shape: one or
// more required columns are entirely absent. It aborts the report being
// generated but nothing else.
type StructuralError struct {
	Table   string
	Missing []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s table is missing required column(s): %s", e.Table, strings.Join(e.Missing, ", "))
}

// IsStructural reports whether err is or wraps a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// RequireColumns checks a header row for the required columns. Header cells
// are compared after trimming surrounding space; order is irrelevant.
func RequireColumns(table string, header []string, required ...string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = struct{}{}
	}

	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &StructuralError{Table: table, Missing: missing}
	}
	return nil
}
