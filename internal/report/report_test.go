package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/fte-report/pkg/aggregate"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/fte"
	"github.com/iwvelando/fte-report/pkg/section"
	"github.com/iwvelando/fte-report/pkg/testutil"
	"github.com/iwvelando/fte-report/pkg/validation"
)

var uploadColumns = []string{
	"Sec Name", "X Sec Delivery Method", "Meeting Times", "Capacity", "FTE Count", "Sec Divisions", "Sec Faculty Info",
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	ds := section.Dataset{Columns: uploadColumns, Records: testutil.Records()}
	return NewSession(nil, ds,
		section.NewContactHoursTable(testutil.ContactHours()),
		fte.NewTierTable(testutil.Tiers()),
		opts,
	)
}

func column(t *testing.T, cols []string, name string) int {
	t.Helper()
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	t.Fatalf("column %q not in %v", name, cols)
	return -1
}

func TestSessionListings(t *testing.T) {
	s := newTestSession(t, Options{})

	if got := strings.Join(s.Divisions(), "|"); got != "Business|Math" {
		t.Errorf("Divisions() = %s", got)
	}
	if got := strings.Join(s.Instructors(), "|"); got != "Jones, Mary|Lee, Ann|Smith, John" {
		t.Errorf("Instructors() = %s", got)
	}
	if got := strings.Join(s.Courses(), "|"); got != "CSC-121|CSC-151|ENG-111|MAT-171" {
		t.Errorf("Courses() = %s", got)
	}
	if s.Len() != 8 || s.Support() != 1926 || s.ID == "" {
		t.Errorf("unexpected session basics: len=%d support=%v id=%q", s.Len(), s.Support(), s.ID)
	}
}

func TestSessionSupportOverride(t *testing.T) {
	zero := 0.0
	custom := 2000.0
	tests := []struct {
		name     string
		support  *float64
		expected float64
	}{
		{"Unset keeps base constant", nil, 1926},
		{"Zero is honoured", &zero, 0},
		{"Custom value", &custom, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, Options{Support: tt.support})
			if got := s.Support(); got != tt.expected {
				t.Errorf("Support() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestSessionDiagnostics(t *testing.T) {
	d := newTestSession(t, Options{}).Diagnostics()
	expected := Diagnostics{
		Rows:                  8,
		MissingCourseCode:     1,
		UnmatchedContactHours: 2,
		MissingTotalFTE:       2,
		TierMisses:            2,
	}
	if d != expected {
		t.Errorf("Diagnostics() = %+v, expected %+v", d, expected)
	}
}

func TestSessionIDsAreDistinct(t *testing.T) {
	if newTestSession(t, Options{}).ID == newTestSession(t, Options{}).ID {
		t.Errorf("expected every session to get its own id")
	}
}

func TestResolveDivision(t *testing.T) {
	s := newTestSession(t, Options{})
	tests := []struct {
		input    string
		expected string
		noMatch  bool
	}{
		{"Business", "Business", false},
		{" business ", "Business", false},
		{"MATH", "Math", false},
		{"Art", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := s.ResolveDivision(tt.input)
			if tt.noMatch {
				if !errors.Is(err, ErrNoMatch) {
					t.Errorf("ResolveDivision(%q) error = %v, expected no match", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.expected {
				t.Errorf("ResolveDivision(%q) = %q, %v, expected %q", tt.input, got, err, tt.expected)
			}
		})
	}
}

func TestMatchAndResolveInstructors(t *testing.T) {
	s := newTestSession(t, Options{})

	if got := s.MatchInstructors("  J. Smith"); len(got) != 0 {
		t.Errorf("MatchInstructors(J. Smith) = %v, expected none", got)
	}
	if got := s.MatchInstructors("smith, j."); len(got) != 1 || got[0] != "Smith, John" {
		t.Errorf("MatchInstructors(smith, j.) = %v", got)
	}
	if got := s.MatchInstructors(""); got != nil {
		t.Errorf("MatchInstructors(\"\") = %v, expected nil", got)
	}

	name, err := s.ResolveInstructor("LEE")
	if err != nil || name != "Lee, Ann" {
		t.Errorf("ResolveInstructor(LEE) = %q, %v", name, err)
	}

	_, err = s.ResolveInstructor("n")
	var amb *AmbiguousError
	if !errors.As(err, &amb) || len(amb.Candidates) != 3 {
		t.Errorf("ResolveInstructor(n) error = %v, expected 3 candidates", err)
	}

	_, err = s.ResolveInstructor("Nobody")
	var nm *NoMatchError
	if !errors.As(err, &nm) || nm.Filter != "instructor" {
		t.Errorf("ResolveInstructor(Nobody) error = %v", err)
	}
}

func TestResolveCourse(t *testing.T) {
	s := newTestSession(t, Options{})
	tests := []struct {
		query     string
		expected  string
		ambiguous bool
		noMatch   bool
	}{
		{"CSC-151", "CSC-151", false, false},
		{"csc-151", "CSC-151", false, false},
		{"CSC-12", "CSC-121", false, false},
		{"MAT", "MAT-171", false, false},
		{"CSC", "", true, false},
		{"XYZ-999", "", false, true},
		{"", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.ResolveCourse(tt.query)
			switch {
			case tt.ambiguous:
				var amb *AmbiguousError
				if !errors.As(err, &amb) {
					t.Errorf("ResolveCourse(%q) error = %v, expected ambiguous", tt.query, err)
				}
			case tt.noMatch:
				if !errors.Is(err, ErrNoMatch) {
					t.Errorf("ResolveCourse(%q) error = %v, expected no match", tt.query, err)
				}
			default:
				if err != nil || got != tt.expected {
					t.Errorf("ResolveCourse(%q) = %q, %v, expected %q", tt.query, got, err, tt.expected)
				}
			}
		})
	}
}

func TestDivisionReport(t *testing.T) {
	s := newTestSession(t, Options{})
	r, err := s.DivisionReport("business")
	if err != nil {
		t.Fatalf("DivisionReport() error = %v", err)
	}

	if r.Label != "Business" || r.Sections != 4 || r.Duplicates != 0 {
		t.Errorf("unexpected report basics: %q sections=%d duplicates=%d", r.Label, r.Sections, r.Duplicates)
	}
	if len(r.Rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(r.Rows))
	}
	if r.GeneratedFTE != 18000 || r.TotalFTE != 9 {
		t.Errorf("totals = %v / %v, expected 9 / 18000", r.TotalFTE, r.GeneratedFTE)
	}

	subtotal := r.Rows[3]
	if subtotal.Kind != aggregate.KindSubtotal || subtotal.GeneratedFTE != 14000 || subtotal.TotalFTE.Valid {
		t.Errorf("CSC-121 subtotal = %+v", subtotal)
	}

	table := r.Table()
	div := column(t, table.Columns, "Division")
	code := column(t, table.Columns, "Course Code")
	total := column(t, table.Columns, "Total FTE")
	enroll := column(t, table.Columns, "Enrollment Per")
	gen := column(t, table.Columns, "Generated FTE")

	if table.Rows[0][div] != "Business" || table.Rows[1][div] != "" {
		t.Errorf("division should show on the first row only")
	}
	if table.Rows[0][code] != "CSC-121" || table.Rows[1][code] != "" || table.Rows[4][code] != "CSC-151" {
		t.Errorf("course code should show on the first row of each group")
	}
	if table.Rows[0][total] != "2.50" || table.Rows[0][enroll] != "50.00%" || table.Rows[0][gen] != "$5,000.00" {
		t.Errorf("row 0 = %v", table.Rows[0])
	}
	if table.Rows[3][code] != "Total" || table.Rows[3][total] != "" || table.Rows[3][gen] != "$14,000.00" {
		t.Errorf("subtotal row = %v", table.Rows[3])
	}
	last := table.Rows[6]
	if last[code] != "DIVISION TOTAL" || last[total] != "9.00" || last[gen] != "$18,000.00" || last[enroll] != "" {
		t.Errorf("grand total row = %v", last)
	}

	summary := r.Summary()
	if summary[0].Value != "Business" || summary[1].Value != "9.00" || summary[2].Value != "$18,000.00" {
		t.Errorf("Summary() = %+v", summary)
	}
}

func TestDivisionReportKeepsUngroupedOut(t *testing.T) {
	r, err := newTestSession(t, Options{}).DivisionReport("Math")
	if err != nil {
		t.Fatalf("DivisionReport() error = %v", err)
	}
	if r.Excluded != 1 || r.Sections != 3 {
		t.Errorf("Excluded = %d, Sections = %d", r.Excluded, r.Sections)
	}
	eng := testutil.FindSection(r.Rows, "ENG-111-01")
	if eng == nil || eng.TotalFTE.Valid || eng.GeneratedFTE != 0 {
		t.Errorf("ENG-111-01 should be present with no Total FTE, got %+v", eng)
	}
	table := r.Table()
	if got := table.Rows[0][column(t, table.Columns, "Total FTE")]; got != "" {
		t.Errorf("missing Total FTE should render blank, got %q", got)
	}
	if r.GeneratedFTE != 4356 {
		t.Errorf("GeneratedFTE = %v, expected 4356", r.GeneratedFTE)
	}
}

func TestInstructorReport(t *testing.T) {
	s := newTestSession(t, Options{})
	r, err := s.InstructorReport("smith")
	if err != nil {
		t.Fatalf("InstructorReport() error = %v", err)
	}

	if r.Label != "Smith, John" || r.Duplicates != 1 || r.Sections != 3 {
		t.Errorf("unexpected basics: %q duplicates=%d sections=%d", r.Label, r.Duplicates, r.Sections)
	}
	if len(r.Rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(r.Rows))
	}

	kept := testutil.FindSection(r.Rows, "CSC-121-001")
	if kept == nil || kept.Section.MeetingTimes != "MW 09:00" {
		t.Errorf("dedup should keep the earliest meeting time, got %+v", kept)
	}

	grand := testutil.FindLabel(r.Rows, "TOTAL")
	if grand == nil || grand.GeneratedFTE != 9000 || !grand.TotalFTE.Valid || grand.TotalFTE.Value != 4.5 {
		t.Errorf("TOTAL row = %+v", grand)
	}

	table := r.Table()
	total := column(t, table.Columns, "Total FTE")
	enroll := column(t, table.Columns, "Enrollment Per")
	if table.Rows[0][column(t, table.Columns, "Instructor")] != "Smith, John" {
		t.Errorf("instructor should show on the first row")
	}
	if table.Rows[0][total] != "2.500" || table.Rows[1][total] != "2.500" {
		t.Errorf("Total FTE should use three decimals with subtotals, got %v / %v", table.Rows[0], table.Rows[1])
	}
	if table.Rows[0][enroll] != "50.0%" || table.Rows[4][enroll] != "0.0%" {
		t.Errorf("enrollment should use the one-decimal policy, got %q / %q", table.Rows[0][enroll], table.Rows[4][enroll])
	}
}

func TestInstructorReportIsIdempotent(t *testing.T) {
	s := newTestSession(t, Options{})
	r, err := s.InstructorReport("Smith, John")
	if err != nil {
		t.Fatalf("InstructorReport() error = %v", err)
	}
	again := aggregate.Reaggregate(r.Rows, aggregate.Options{
		GroupBy:          byCourseCode,
		SubtotalLabel:    constants.LabelSubtotal,
		SubtotalTotalFTE: true,
		GrandTotalLabel:  constants.LabelGrandTotal,
		GrandTotalFTE:    true,
	})
	if again.GeneratedFTE != r.GeneratedFTE || again.TotalFTE != r.TotalFTE || len(again.Rows) != len(r.Rows) {
		t.Errorf("re-aggregation changed the report: %v/%v vs %v/%v", again.TotalFTE, again.GeneratedFTE, r.TotalFTE, r.GeneratedFTE)
	}
}

func TestInstructorReportDropsStaleTotalRows(t *testing.T) {
	records := append(testutil.Records(), testutil.Record("TOTAL", "Business", "Smith, John", 0, 0))
	stale := records[len(records)-1]
	stale.CourseCode = "TOTAL"
	records[len(records)-1] = stale

	ds := section.Dataset{Columns: uploadColumns, Records: records}
	s := NewSession(nil, ds, section.NewContactHoursTable(testutil.ContactHours()), fte.NewTierTable(testutil.Tiers()), Options{})
	r, err := s.InstructorReport("Smith, John")
	if err != nil {
		t.Fatalf("InstructorReport() error = %v", err)
	}
	if r.Sections != 3 || r.GeneratedFTE != 9000 {
		t.Errorf("stale total row leaked: sections=%d generated=%v", r.Sections, r.GeneratedFTE)
	}
}

func TestInstructorReportBlanksNumberErrors(t *testing.T) {
	rec := testutil.Record("CSC-121-009", constants.SpreadsheetNumberError, "Doe, Jane", 10, 5)
	ds := section.Dataset{Columns: uploadColumns, Records: []section.Record{rec}}
	s := NewSession(nil, ds, section.NewContactHoursTable(testutil.ContactHours()), nil, Options{})

	r, err := s.InstructorReport("Doe, Jane")
	if err != nil {
		t.Fatalf("InstructorReport() error = %v", err)
	}
	table := r.Table()
	if got := table.Rows[0][column(t, table.Columns, "Sec Divisions")]; got != "" {
		t.Errorf("Sec Divisions = %q, expected blank", got)
	}
}

func TestCourseReportTierKeys(t *testing.T) {
	tests := []struct {
		name      string
		mode      fte.KeyMode
		generated float64
	}{
		{"Course key uses the course entry", fte.KeyByCourse, 4400},
		{"Prefix key uses the prefix entry", fte.KeyByPrefix, 4000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := newTestSession(t, Options{CourseKey: tt.mode}).CourseReport("csc-151")
			if err != nil {
				t.Fatalf("CourseReport() error = %v", err)
			}
			if r.GeneratedFTE != tt.generated {
				t.Errorf("GeneratedFTE = %v, expected %v", r.GeneratedFTE, tt.generated)
			}
			table := r.Table()
			last := table.Rows[len(table.Rows)-1]
			if last[column(t, table.Columns, "Course Code")] != "COURSE TOTAL" || last[column(t, table.Columns, "Total FTE")] != "2.00" {
				t.Errorf("course total row = %v", last)
			}
		})
	}
}

func TestCourseReportFallsBackToPrefix(t *testing.T) {
	r, err := newTestSession(t, Options{CourseKey: fte.KeyByCourse}).CourseReport("CSC-121")
	if err != nil {
		t.Fatalf("CourseReport() error = %v", err)
	}
	if r.Sections != 2 || r.GeneratedFTE != 9000 {
		t.Errorf("sections=%d generated=%v, expected 2 / 9000", r.Sections, r.GeneratedFTE)
	}
	table := r.Table()
	code := column(t, table.Columns, "Course Code")
	if table.Rows[0][code] != "CSC-121" || table.Rows[1][code] != "" {
		t.Errorf("course code should appear on the first row only")
	}
}

func TestEnrollmentReport(t *testing.T) {
	r, err := newTestSession(t, Options{}).EnrollmentReport("CSC-121")
	if err != nil {
		t.Fatalf("EnrollmentReport() error = %v", err)
	}
	table := r.Table()
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows and no totals, got %d", len(table.Rows))
	}
	name := column(t, table.Columns, "Sec Name")
	pct := column(t, table.Columns, "Enrollment Percentage")
	if table.Rows[0][name] != "CSC-121-002" || table.Rows[0][pct] != "80.00%" {
		t.Errorf("highest enrollment should come first, got %v", table.Rows[0])
	}
	if table.Rows[1][pct] != "50.00%" {
		t.Errorf("row 1 = %v", table.Rows[1])
	}
	if len(r.Chart()) != 2 {
		t.Errorf("Chart() = %v", r.Chart())
	}
}

func TestEnrollmentReportZeroCapacity(t *testing.T) {
	ds := section.Dataset{Columns: uploadColumns, Records: []section.Record{
		testutil.Record("BIO-111-01", "Science", "Lee, Ann", 0, 10),
		testutil.Record("BIO-111-02", "Science", "Lee, Ann", 20, 10),
	}}
	r, err := NewSession(nil, ds, nil, nil, Options{}).EnrollmentReport("BIO-111")
	if err != nil {
		t.Fatalf("EnrollmentReport() error = %v", err)
	}
	table := r.Table()
	pct := column(t, table.Columns, "Enrollment Percentage")
	if table.Rows[0][pct] != "50.00%" || table.Rows[1][pct] != "N/A%" {
		t.Errorf("rows = %v", table.Rows)
	}
}

func TestDivisionDump(t *testing.T) {
	s := newTestSession(t, Options{})

	result, err := s.DivisionDump([]string{"business", "Nowhere"})
	if err != nil {
		t.Fatalf("DivisionDump() error = %v", err)
	}
	if len(result.Reports) != 1 || len(result.Unknown) != 1 || result.Unknown[0] != "Nowhere" {
		t.Fatalf("unexpected dump result: %d reports, unknown %v", len(result.Reports), result.Unknown)
	}
	dump := result.Reports[0]
	if dump.Sections != 4 || len(dump.Rows) != 4 {
		t.Errorf("dump should list every uploaded row without totals, got %d rows", len(dump.Rows))
	}
	cols := dump.Columns()
	for _, c := range cols {
		if c == "Course Code" {
			t.Errorf("dump must not include the course code column")
		}
	}
	if cols[len(cols)-1] != "Generated FTE" || cols[len(cols)-3] != "Contact Hours" {
		t.Errorf("computed columns should be appended, got %v", cols)
	}
	if dump.Chart() != nil {
		t.Errorf("dump has no chart")
	}

	all, err := s.DivisionDump([]string{"ALL"})
	if err != nil || len(all.Reports) != 2 {
		t.Errorf("DivisionDump(ALL) = %v, %v", all, err)
	}

	_, err = s.DivisionDump([]string{"Nowhere"})
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("DivisionDump(Nowhere) error = %v, expected no match", err)
	}
}

func TestStructuralErrorsAbortOnlyTheView(t *testing.T) {
	cols := []string{"Sec Name", "Capacity", "FTE Count", "Sec Divisions"}
	s := NewSession(nil, section.Dataset{Columns: cols, Records: testutil.Records()}, nil, nil, Options{})

	_, err := s.InstructorReport("Smith, John")
	if !validation.IsStructural(err) {
		t.Fatalf("InstructorReport() error = %v, expected a structural error", err)
	}
	if !strings.Contains(err.Error(), "Sec Faculty Info") {
		t.Errorf("error should name the missing column, got %v", err)
	}

	if _, err := s.DivisionReport("Business"); err != nil {
		t.Errorf("DivisionReport() should still work, got %v", err)
	}
}

func TestTopSectionsRoundTrip(t *testing.T) {
	r, err := newTestSession(t, Options{}).DivisionReport("Business")
	if err != nil {
		t.Fatalf("DivisionReport() error = %v", err)
	}

	numeric := r.Chart()
	parsed, err := TopSectionsFromTable(r.Table(), constants.TopSectionsDivision)
	if err != nil {
		t.Fatalf("TopSectionsFromTable() error = %v", err)
	}
	if len(numeric) != 4 || len(parsed) != len(numeric) {
		t.Fatalf("chart sizes %d / %d", len(numeric), len(parsed))
	}
	for i := range numeric {
		if numeric[i] != parsed[i] {
			t.Errorf("point %d: numeric %+v, parsed %+v", i, numeric[i], parsed[i])
		}
	}
	if numeric[0].Value != 5000 {
		t.Errorf("top section = %+v", numeric[0])
	}

	if got := TopSections(r.Rows, 1); len(got) != 1 {
		t.Errorf("TopSections(n=1) = %v", got)
	}
}

func TestParseView(t *testing.T) {
	for _, v := range Views {
		got, err := ParseView(strings.ToUpper(string(v)))
		if err != nil || got != v {
			t.Errorf("ParseView(%s) = %v, %v", v, got, err)
		}
	}
	if _, err := ParseView("summary"); err == nil {
		t.Errorf("expected an error for an unknown view")
	}
}

func TestGenerate(t *testing.T) {
	s := newTestSession(t, Options{})

	tests := []struct {
		view    View
		value   string
		reports int
		unknown int
		wantErr error
	}{
		{ViewDivision, "Business", 1, 0, nil},
		{ViewInstructor, "lee", 1, 0, nil},
		{ViewCourse, "CSC-151", 1, 0, nil},
		{ViewEnrollment, "MAT-171", 1, 0, nil},
		{ViewDump, "Business, Math, Nowhere", 2, 1, nil},
		{ViewDivision, "Nowhere", 0, 0, ErrNoMatch},
		{ViewDump, " , ", 0, 0, ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(string(tt.view)+"/"+tt.value, func(t *testing.T) {
			reports, unknown, err := s.Generate(tt.view, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Generate(%s, %q) error = %v, expected %v", tt.view, tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate(%s, %q) error = %v", tt.view, tt.value, err)
			}
			if len(reports) != tt.reports || len(unknown) != tt.unknown {
				t.Errorf("Generate(%s, %q) = %d reports, %d unknown, expected %d, %d",
					tt.view, tt.value, len(reports), len(unknown), tt.reports, tt.unknown)
			}
		})
	}

	if _, _, err := s.Generate(View("bogus"), "x"); err == nil {
		t.Error("expected an error for an unknown view")
	}
}
