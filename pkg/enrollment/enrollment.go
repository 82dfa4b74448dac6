// Package enrollment computes capacity utilization for a section and formats
// it under the policy of the report that asks for it.
//
// Three policies coexist and produce different text for the same inputs:
//
//	Section  2 decimals, "" when not computable (division and course views)
//	Batch    1 decimal, capacity 0 is "0%", other failures "N/A%" (instructor view)
//	Report   2 decimals, capacity 0 and other failures "N/A%" (enrollment view)
package enrollment

import (
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/format"
	"github.com/iwvelando/fte-report/pkg/mathutil"
	"github.com/iwvelando/fte-report/pkg/section"
)

// Policy selects the formatting rules for an enrollment percentage.
type Policy int

const (
	// Section is used for per-section rows of grouped FTE reports.
	Section Policy = iota
	// Batch is used by the instructor report.
	Batch
	// Report is used by the dedicated enrollment report.
	Report
)

func (p Policy) String() string {
	switch p {
	case Batch:
		return "batch"
	case Report:
		return "report"
	default:
		return "section"
	}
}

// Percent returns headcount / capacity * 100. The second result is false when
// either input is missing or capacity is not positive.
func Percent(headcount, capacity section.Number) (float64, bool) {
	if !headcount.Valid || !capacity.Valid || capacity.Value <= 0 {
		return 0, false
	}
	return mathutil.CalculatePercentage(headcount.Value, capacity.Value)
}

// Format renders the enrollment percentage for a section under a policy.
func Format(p Policy, headcount, capacity section.Number) string {
	pct, ok := Percent(headcount, capacity)
	switch p {
	case Batch:
		if ok {
			return format.Percent(mathutil.RoundHalfEven(pct, 1), 1)
		}
		if headcount.Valid && capacity.Valid && capacity.Value == 0 {
			return constants.EnrollmentZero
		}
		return constants.EnrollmentUnavailable
	case Report:
		if !ok {
			return constants.EnrollmentUnavailable
		}
		return format.Percent(mathutil.RoundHalfEven(pct, 2), 2)
	default:
		if !ok {
			return ""
		}
		return format.Percent(mathutil.RoundHalfEven(pct, 2), 2)
	}
}

// Formatter returns Format bound to a policy, for use as an aggregation hook.
func Formatter(p Policy) func(headcount, capacity section.Number) string {
	return func(headcount, capacity section.Number) string {
		return Format(p, headcount, capacity)
	}
}
