// Package aggregate turns an ordered sequence of computed sections into the
// hierarchical row set every report view renders: section rows, a subtotal
// after each group and a grand total at the end.
package aggregate

import (
	"strings"

	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/fte"
	"github.com/iwvelando/fte-report/pkg/section"
)

// Kind distinguishes section rows from the rows aggregation adds.
type Kind int

const (
	KindSection Kind = iota
	KindSubtotal
	KindGrandTotal
)

func (k Kind) String() string {
	switch k {
	case KindSubtotal:
		return "subtotal"
	case KindGrandTotal:
		return "grandTotal"
	default:
		return "section"
	}
}

// Row is one line of an aggregated report.
//
// For a section row, Section is set, Group holds the group key and ShowGroup
// is true only on the first row of the group. For subtotal and grand total
// rows Section is nil, Label holds the row label and every descriptive
// field is blank. TotalFTE on an aggregate row is invalid when the view does
// not total raw FTE at that level.
type Row struct {
	Kind         Kind
	Label        string
	Group        string
	ShowGroup    bool
	Section      *fte.Section
	Enrollment   string
	TotalFTE     section.Number
	GeneratedFTE float64
}

// IsAggregate reports whether the row was added by aggregation.
func (r Row) IsAggregate() bool {
	return r.Kind != KindSection
}

// Options describe the shape of a view.
type Options struct {
	// GroupBy returns the group key of a section. Sections with an empty key
	// are excluded. Nil places every section in one unnamed group.
	GroupBy func(fte.Section) string

	// SubtotalLabel enables a subtotal row after every group.
	SubtotalLabel string
	// SubtotalTotalFTE adds raw FTE to subtotal rows.
	SubtotalTotalFTE bool

	// GrandTotalLabel enables the final grand total row.
	GrandTotalLabel string
	// GrandTotalFTE adds raw FTE to the grand total row.
	GrandTotalFTE bool

	// Enrollment formats the enrollment column of section rows.
	Enrollment func(headcount, capacity section.Number) string
}

// Report is the result of aggregation. TotalFTE and GeneratedFTE are the
// numeric report-level sums before any formatting.
type Report struct {
	Rows         []Row
	Sections     int
	Excluded     int
	TotalFTE     float64
	GeneratedFTE float64
}

// SectionRows returns only the section rows of the report.
func (r Report) SectionRows() []Row {
	out := make([]Row, 0, r.Sections)
	for _, row := range r.Rows {
		if row.Kind == KindSection {
			out = append(out, row)
		}
	}
	return out
}

type running struct {
	total     float64
	generated float64
}

func (s *running) add(sec fte.Section) {
	s.total += sec.TotalFTE.Or(0)
	s.generated += sec.GeneratedFTE
}

// Aggregate walks sections in the given order. Whenever the group key
// changes a subtotal for the finished group is emitted, and after the last
// section a final subtotal and the grand total follow. With subtotals
// enabled the grand total is the sum of the subtotals; otherwise it is the
// sum of the sections. Sections with no Total FTE contribute zero.
func Aggregate(sections []fte.Section, opts Options) Report {
	var (
		report    Report
		group     running
		grand     running
		current   string
		haveGroup bool
	)

	flush := func() {
		if !haveGroup {
			return
		}
		if opts.SubtotalLabel != "" {
			row := Row{Kind: KindSubtotal, Label: opts.SubtotalLabel, GeneratedFTE: group.generated}
			if opts.SubtotalTotalFTE {
				row.TotalFTE = section.NewNumber(group.total)
			}
			report.Rows = append(report.Rows, row)
		}
		grand.total += group.total
		grand.generated += group.generated
		group = running{}
	}

	for i := range sections {
		sec := sections[i]
		key := ""
		if opts.GroupBy != nil {
			key = opts.GroupBy(sec)
			if key == "" {
				report.Excluded++
				continue
			}
		}

		first := !haveGroup || key != current
		if first {
			flush()
			current = key
			haveGroup = true
		}

		row := Row{
			Kind:         KindSection,
			Group:        key,
			ShowGroup:    first,
			Section:      &sec,
			TotalFTE:     sec.TotalFTE,
			GeneratedFTE: sec.GeneratedFTE,
		}
		if opts.Enrollment != nil {
			row.Enrollment = opts.Enrollment(sec.Headcount, sec.Capacity)
		}
		report.Rows = append(report.Rows, row)
		report.Sections++
		group.add(sec)
	}
	flush()

	report.TotalFTE = grand.total
	report.GeneratedFTE = grand.generated
	if opts.GrandTotalLabel != "" && report.Sections > 0 {
		row := Row{Kind: KindGrandTotal, Label: opts.GrandTotalLabel, GeneratedFTE: grand.generated}
		if opts.GrandTotalFTE {
			row.TotalFTE = section.NewNumber(grand.total)
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

// IsTotalLabel reports whether a value is one of the labels aggregation
// writes into the course code column, ignoring case and surrounding space.
func IsTotalLabel(value string) bool {
	v := strings.ToUpper(strings.TrimSpace(value))
	switch v {
	case strings.ToUpper(constants.LabelSubtotal),
		constants.LabelGrandTotal,
		constants.LabelCourseTotal,
		constants.LabelDivisionTotal,
		constants.LabelSubtotalLegacy:
		return true
	}
	return false
}

// StripTotalSections drops sections that are left-over total rows of an
// earlier pass, recognised by a total label in the course code or section
// name column.
func StripTotalSections(sections []fte.Section) []fte.Section {
	out := make([]fte.Section, 0, len(sections))
	for _, sec := range sections {
		if IsTotalLabel(sec.CourseCode) || IsTotalLabel(sec.SectionName) {
			continue
		}
		out = append(out, sec)
	}
	return out
}

// StripTotals recovers the sections of an aggregated row set, dropping
// every aggregate row and any section that is itself a total row.
func StripTotals(rows []Row) []fte.Section {
	sections := make([]fte.Section, 0, len(rows))
	for _, row := range rows {
		if row.IsAggregate() || row.Section == nil {
			continue
		}
		sections = append(sections, *row.Section)
	}
	return StripTotalSections(sections)
}

// Reaggregate aggregates a row set that may already contain totals. The
// result equals aggregating the underlying sections once.
func Reaggregate(rows []Row, opts Options) Report {
	return Aggregate(StripTotals(rows), opts)
}
