// Package section defines the section records a report is computed from and
// the transforms applied to them before any FTE math: course code backfill,
// duplicate collapsing and the contact-hours join.
package section

import (
	"strconv"
	"strings"

	"github.com/iwvelando/fte-report/pkg/coursecode"
	"github.com/iwvelando/fte-report/pkg/mathutil"
)

// Number is a numeric cell that may be absent or unparseable.
type Number struct {
	Value float64
	Valid bool
}

// NewNumber wraps a value. NaN and infinities are not valid numbers.
func NewNumber(v float64) Number {
	if !mathutil.IsFinite(v) {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

// ParseNumber coerces a raw cell into a Number. Blank or non-numeric text
// yields an invalid Number rather than an error.
func ParseNumber(raw string) Number {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Number{}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Number{}
	}
	return NewNumber(v)
}

// Or returns the value, or def when the number is invalid.
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

// String renders the shortest decimal form, or "" when invalid.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Record is one row of uploaded section data. It is only modified while
// course codes are backfilled and contact hours merged.
type Record struct {
	SectionName    string
	CourseCode     string
	DeliveryMethod string
	MeetingTimes   string
	Division       string
	FacultyName    string
	Capacity       Number
	Headcount      Number
	ContactHours   Number

	// Extra holds uploaded columns the computation does not interpret so
	// that flat listings can reproduce the file.
	Extra map[string]string
}

// HasCourseCode reports whether the record belongs to a course group.
func (r Record) HasCourseCode() bool {
	return r.CourseCode != ""
}

// Prefix returns the first three characters of the section name, unchanged.
func (r Record) Prefix() (string, bool) {
	runes := []rune(r.SectionName)
	if len(runes) < 3 {
		return "", false
	}
	return string(runes[:3]), true
}

// Dataset is an uploaded section table: its header order and its records.
type Dataset struct {
	Columns []string
	Records []Record
}

// Has reports whether the upload carried the named column.
func (d Dataset) Has(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// BackfillCourseCodes derives a course code from the section name for every
// record that does not already carry one. Records are copied, not mutated.
func BackfillCourseCodes(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.CourseCode) == "" {
			rec.CourseCode, _ = coursecode.Extract(rec.SectionName)
		} else {
			rec.CourseCode = strings.TrimSpace(rec.CourseCode)
		}
		out[i] = rec
	}
	return out
}
