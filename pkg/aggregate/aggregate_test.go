package aggregate

import (
	"testing"

	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/fte"
	"github.com/iwvelando/fte-report/pkg/section"
)

func sec(name, code string, total, generated float64) fte.Section {
	return fte.Section{
		Record: section.Record{
			SectionName: name,
			CourseCode:  code,
			Capacity:    section.NewNumber(40),
			Headcount:   section.NewNumber(30),
		},
		TotalFTE:     section.NewNumber(total),
		GeneratedFTE: generated,
	}
}

func byCourse(s fte.Section) string {
	return s.CourseCode
}

func divisionOptions() Options {
	return Options{
		GroupBy:         byCourse,
		SubtotalLabel:   constants.LabelSubtotal,
		GrandTotalLabel: constants.LabelDivisionTotal,
		GrandTotalFTE:   true,
	}
}

func fixture() []fte.Section {
	return []fte.Section{
		sec("CSC-121-001", "CSC-121", 1.5, 3000),
		sec("CSC-121-002", "CSC-121", 0.25, 500.5),
		sec("CSC-151-001", "CSC-151", 2, 4000),
		sec("MAT-171-01", "MAT-171", 0.75, 1444.5),
		sec("MAT-171-02", "MAT-171", 0.125, 240.75),
	}
}

func TestAggregateOrdering(t *testing.T) {
	report := Aggregate(fixture(), divisionOptions())

	expected := []struct {
		kind      Kind
		label     string
		name      string
		showGroup bool
	}{
		{KindSection, "", "CSC-121-001", true},
		{KindSection, "", "CSC-121-002", false},
		{KindSubtotal, "Total", "", false},
		{KindSection, "", "CSC-151-001", true},
		{KindSubtotal, "Total", "", false},
		{KindSection, "", "MAT-171-01", true},
		{KindSection, "", "MAT-171-02", false},
		{KindSubtotal, "Total", "", false},
		{KindGrandTotal, "DIVISION TOTAL", "", false},
	}

	if len(report.Rows) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(report.Rows))
	}
	for i, want := range expected {
		row := report.Rows[i]
		if row.Kind != want.kind || row.Label != want.label || row.ShowGroup != want.showGroup {
			t.Errorf("row %d = {%v %q show=%v}, expected {%v %q show=%v}", i, row.Kind, row.Label, row.ShowGroup, want.kind, want.label, want.showGroup)
		}
		if want.kind == KindSection && row.Section.SectionName != want.name {
			t.Errorf("row %d section = %q, expected %q", i, row.Section.SectionName, want.name)
		}
		if want.kind != KindSection && row.Section != nil {
			t.Errorf("row %d is an aggregate but carries a section", i)
		}
	}
	if report.Sections != 5 {
		t.Errorf("Sections = %d, expected 5", report.Sections)
	}
}

func TestAggregateSubtotalsSumExactly(t *testing.T) {
	report := Aggregate(fixture(), divisionOptions())

	var sectionSum, subtotalSum, groupSum float64
	var grand *Row
	for i := range report.Rows {
		row := report.Rows[i]
		switch row.Kind {
		case KindSection:
			sectionSum += row.GeneratedFTE
			groupSum += row.GeneratedFTE
		case KindSubtotal:
			if row.GeneratedFTE != groupSum {
				t.Errorf("subtotal at row %d = %v, expected %v", i, row.GeneratedFTE, groupSum)
			}
			if row.TotalFTE.Valid {
				t.Errorf("subtotal at row %d should not carry Total FTE", i)
			}
			subtotalSum += row.GeneratedFTE
			groupSum = 0
		case KindGrandTotal:
			grand = &report.Rows[i]
		}
	}

	if grand == nil {
		t.Fatalf("no grand total row")
	}
	if grand.GeneratedFTE != subtotalSum || grand.GeneratedFTE != sectionSum {
		t.Errorf("grand total = %v, subtotals = %v, sections = %v", grand.GeneratedFTE, subtotalSum, sectionSum)
	}
	if grand.GeneratedFTE != 9185.75 {
		t.Errorf("grand total = %v, expected 9185.75", grand.GeneratedFTE)
	}
	if !grand.TotalFTE.Valid || grand.TotalFTE.Value != 4.625 {
		t.Errorf("grand Total FTE = %v, expected 4.625", grand.TotalFTE)
	}
	if report.GeneratedFTE != grand.GeneratedFTE || report.TotalFTE != 4.625 {
		t.Errorf("report sums = %v / %v", report.TotalFTE, report.GeneratedFTE)
	}
}

func TestAggregateMissingTotalFTEContributesZero(t *testing.T) {
	missing := sec("ENG-111-01", "ENG-111", 0, 0)
	missing.TotalFTE = section.Number{}
	sections := []fte.Section{missing, sec("ENG-111-02", "ENG-111", 1, 2000)}

	opts := divisionOptions()
	opts.SubtotalTotalFTE = true
	report := Aggregate(sections, opts)

	if report.Sections != 2 {
		t.Fatalf("expected both sections to be kept, got %d", report.Sections)
	}
	if report.Rows[0].TotalFTE.Valid {
		t.Errorf("section without data must stay distinguishable from zero")
	}
	subtotal := report.Rows[2]
	if subtotal.Kind != KindSubtotal || subtotal.TotalFTE.Value != 1 || subtotal.GeneratedFTE != 2000 {
		t.Errorf("unexpected subtotal %+v", subtotal)
	}
}

func TestAggregateExcludesUngroupedSections(t *testing.T) {
	sections := append(fixture(), sec("Orientation", "", 1, 1926))
	report := Aggregate(sections, divisionOptions())
	if report.Excluded != 1 || report.Sections != 5 {
		t.Errorf("Excluded = %d, Sections = %d", report.Excluded, report.Sections)
	}
}

func TestAggregateWithoutGrouping(t *testing.T) {
	report := Aggregate(fixture(), Options{
		GrandTotalLabel: constants.LabelCourseTotal,
		GrandTotalFTE:   true,
	})
	if len(report.Rows) != 6 {
		t.Fatalf("expected 5 sections and a grand total, got %d rows", len(report.Rows))
	}
	if !report.Rows[0].ShowGroup || report.Rows[1].ShowGroup {
		t.Errorf("only the first row should show its group")
	}
	last := report.Rows[len(report.Rows)-1]
	if last.Kind != KindGrandTotal || last.Label != "COURSE TOTAL" {
		t.Errorf("last row = %+v", last)
	}
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil, divisionOptions())
	if len(report.Rows) != 0 {
		t.Errorf("expected no rows for empty input, got %d", len(report.Rows))
	}
}

func TestAggregateEnrollmentHook(t *testing.T) {
	opts := divisionOptions()
	opts.Enrollment = func(headcount, capacity section.Number) string {
		return "hook"
	}
	report := Aggregate(fixture()[:1], opts)
	if report.Rows[0].Enrollment != "hook" {
		t.Errorf("Enrollment = %q", report.Rows[0].Enrollment)
	}
	if report.Rows[1].Enrollment != "" {
		t.Errorf("aggregate rows must leave enrollment blank")
	}
}

func TestReaggregateIsIdempotent(t *testing.T) {
	opts := Options{
		GroupBy:          byCourse,
		SubtotalLabel:    constants.LabelSubtotal,
		SubtotalTotalFTE: true,
		GrandTotalLabel:  constants.LabelGrandTotal,
		GrandTotalFTE:    true,
	}
	once := Aggregate(fixture(), opts)
	twice := Reaggregate(once.Rows, opts)
	thrice := Reaggregate(twice.Rows, opts)

	for _, r := range []Report{twice, thrice} {
		if len(r.Rows) != len(once.Rows) {
			t.Fatalf("row count changed: %d vs %d", len(r.Rows), len(once.Rows))
		}
		if r.GeneratedFTE != once.GeneratedFTE || r.TotalFTE != once.TotalFTE {
			t.Errorf("totals changed: %v/%v vs %v/%v", r.TotalFTE, r.GeneratedFTE, once.TotalFTE, once.GeneratedFTE)
		}
	}
}

func TestStripTotalSections(t *testing.T) {
	sections := append(fixture(),
		sec("", "TOTAL", 4.625, 9185.75),
		sec("", "Total", 1, 1),
		sec("SUBTOTAL", "", 1, 1),
		sec("", " course total ", 1, 1),
	)
	got := StripTotalSections(sections)
	if len(got) != 5 {
		t.Errorf("expected 5 sections after stripping, got %d", len(got))
	}
}

func TestIsTotalLabel(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"TOTAL", true},
		{"Total", true},
		{"DIVISION TOTAL", true},
		{"COURSE TOTAL", true},
		{"SUBTOTAL", true},
		{"CSC-121", false},
		{"", false},
		{"Totals", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := IsTotalLabel(tt.value); got != tt.expected {
				t.Errorf("IsTotalLabel(%q) = %v, expected %v", tt.value, got, tt.expected)
			}
		})
	}
}
