package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/fte-report/pkg/aggregate"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/enrollment"
	"github.com/iwvelando/fte-report/pkg/fte"
	"github.com/iwvelando/fte-report/pkg/section"
	"github.com/iwvelando/fte-report/pkg/validation"
	"go.uber.org/zap"
)

// View names one of the report shapes.
type View string

const (
	ViewDivision   View = "division"
	ViewInstructor View = "instructor"
	ViewCourse     View = "course"
	ViewEnrollment View = "enrollment"
	ViewDump       View = "dump"
)

// Views lists every view in menu order.
var Views = []View{ViewDivision, ViewInstructor, ViewCourse, ViewEnrollment, ViewDump}

// ParseView maps a name onto a View.
func ParseView(name string) (View, error) {
	for _, v := range Views {
		if string(v) == strings.ToLower(strings.TrimSpace(name)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown report view %q", name)
}

// requiredColumns are the upload columns each view cannot do without.
var requiredColumns = map[View][]string{
	ViewDivision:   {constants.ColDivision, constants.ColFTECount},
	ViewInstructor: {constants.ColFaculty, constants.ColFTECount},
	ViewCourse:     {constants.ColFTECount},
	ViewEnrollment: {constants.ColCapacity, constants.ColFTECount},
	ViewDump:       {constants.ColDivision},
}

// Report is one generated view. Rows carry the numeric values; Table
// renders them.
type Report struct {
	ID    string
	View  View
	Label string

	Rows         []aggregate.Row
	Sections     int
	Excluded     int
	Duplicates   int
	TotalFTE     float64
	GeneratedFTE float64

	layout layout
}

func (s *Session) require(view View) error {
	return validation.RequireColumns(validation.TableSections, s.columns, requiredColumns[view]...)
}

func (s *Session) filter(keep func(section.Record) bool) []section.Record {
	var out []section.Record
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Session) build(view View, label string, records []section.Record, dedup bool, mode fte.KeyMode, opts aggregate.Options, lay layout) *Report {
	duplicates := 0
	if dedup {
		deduped := section.Deduplicate(records)
		duplicates = len(records) - len(deduped)
		records = deduped
	}
	if lay.order != nil {
		lay.order(records)
	}

	sections, _ := s.calc.ComputeAll(records, mode)
	if view == ViewInstructor {
		sections = aggregate.StripTotalSections(sections)
	}
	agg := aggregate.Aggregate(sections, opts)

	r := &Report{
		ID:           s.ID,
		View:         view,
		Label:        label,
		Rows:         agg.Rows,
		Sections:     agg.Sections,
		Excluded:     agg.Excluded,
		Duplicates:   duplicates,
		TotalFTE:     agg.TotalFTE,
		GeneratedFTE: agg.GeneratedFTE,
		layout:       lay,
	}
	s.logger.Debug("built report",
		zap.String("op", "report."+string(view)),
		zap.String("session", s.ID),
		zap.String("label", label),
		zap.Int("sections", r.Sections),
		zap.Int("excluded", r.Excluded),
		zap.Int("duplicates", r.Duplicates),
		zap.Float64("generatedFTE", r.GeneratedFTE),
	)
	return r
}

func byCourseCode(sec fte.Section) string {
	return sec.CourseCode
}

// DivisionReport groups a division's sections by course with a generated
// FTE subtotal per course and a division total. Duplicate section rows are
// kept as uploaded.
func (s *Session) DivisionReport(division string) (*Report, error) {
	if err := s.require(ViewDivision); err != nil {
		return nil, err
	}
	div, err := s.ResolveDivision(division)
	if err != nil {
		return nil, err
	}

	records := s.filter(func(r section.Record) bool { return r.Division == div })
	return s.build(ViewDivision, div, records, false, fte.KeyByPrefix, aggregate.Options{
		GroupBy:         byCourseCode,
		SubtotalLabel:   constants.LabelSubtotal,
		GrandTotalLabel: constants.LabelDivisionTotal,
		GrandTotalFTE:   true,
		Enrollment:      enrollment.Formatter(enrollment.Section),
	}, divisionLayout), nil
}

// InstructorReport groups an instructor's sections by course with both FTE
// measures subtotalled per course and totalled for the instructor.
func (s *Session) InstructorReport(instructor string) (*Report, error) {
	if err := s.require(ViewInstructor); err != nil {
		return nil, err
	}
	name, err := s.ResolveInstructor(instructor)
	if err != nil {
		return nil, err
	}

	records := s.filter(func(r section.Record) bool { return r.FacultyName == name })
	return s.build(ViewInstructor, name, records, true, fte.KeyByPrefix, aggregate.Options{
		GroupBy:          byCourseCode,
		SubtotalLabel:    constants.LabelSubtotal,
		SubtotalTotalFTE: true,
		GrandTotalLabel:  constants.LabelGrandTotal,
		GrandTotalFTE:    true,
		Enrollment:       enrollment.Formatter(enrollment.Batch),
	}, instructorLayout), nil
}

// CourseReport lists the sections of one course with a course total. The
// tier table is keyed by the session's course key mode.
func (s *Session) CourseReport(course string) (*Report, error) {
	if err := s.require(ViewCourse); err != nil {
		return nil, err
	}
	code, err := s.ResolveCourse(course)
	if err != nil {
		return nil, err
	}

	records := s.filter(func(r section.Record) bool { return r.CourseCode == code })
	return s.build(ViewCourse, code, records, true, s.courseKey, aggregate.Options{
		GrandTotalLabel: constants.LabelCourseTotal,
		GrandTotalFTE:   true,
		Enrollment:      enrollment.Formatter(enrollment.Section),
	}, courseLayout), nil
}

// EnrollmentReport lists the sections of one course by enrollment
// percentage, highest first, with sections that have none last.
func (s *Session) EnrollmentReport(course string) (*Report, error) {
	if err := s.require(ViewEnrollment); err != nil {
		return nil, err
	}
	code, err := s.ResolveCourse(course)
	if err != nil {
		return nil, err
	}

	records := s.filter(func(r section.Record) bool { return r.CourseCode == code })
	return s.build(ViewEnrollment, code, records, true, fte.KeyByPrefix, aggregate.Options{
		Enrollment: enrollment.Formatter(enrollment.Report),
	}, enrollmentLayout), nil
}

// DumpResult holds one flat report per requested division.
type DumpResult struct {
	Reports []*Report
	// Unknown lists requested divisions that do not exist.
	Unknown []string
}

// DivisionDump lists every uploaded column for each requested division.
// "ALL" selects every division. Unknown names are reported but do not
// stop the others; a request naming no known division is a NoMatchError.
func (s *Session) DivisionDump(divisions []string) (*DumpResult, error) {
	if err := s.require(ViewDump); err != nil {
		return nil, err
	}

	requested := divisions
	if len(divisions) == 1 && strings.EqualFold(strings.TrimSpace(divisions[0]), "ALL") {
		requested = s.Divisions()
	}

	result := &DumpResult{}
	seen := make(map[string]struct{})
	lay := dumpLayout(s.columns)
	for _, input := range requested {
		if strings.TrimSpace(input) == "" {
			continue
		}
		div, err := s.ResolveDivision(input)
		if err != nil {
			result.Unknown = append(result.Unknown, strings.TrimSpace(input))
			continue
		}
		if _, dup := seen[div]; dup {
			continue
		}
		seen[div] = struct{}{}

		records := s.filter(func(r section.Record) bool { return r.Division == div })
		result.Reports = append(result.Reports, s.build(ViewDump, div, records, false, fte.KeyByPrefix, aggregate.Options{}, lay))
	}

	if len(result.Reports) == 0 {
		return nil, &NoMatchError{Filter: "division", Value: strings.Join(divisions, ", ")}
	}
	return result, nil
}

// sortByEnrollment orders records by enrollment percentage descending.
// Records without a percentage follow, by section name.
func sortByEnrollment(records []section.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		pi, oki := enrollment.Percent(records[i].Headcount, records[i].Capacity)
		pj, okj := enrollment.Percent(records[j].Headcount, records[j].Capacity)
		switch {
		case oki && okj && pi != pj:
			return pi > pj
		case oki != okj:
			return oki
		default:
			return section.LessEmptyLast(records[i].SectionName, records[j].SectionName)
		}
	})
}

// Generate runs one view for a filter value. For the dump, value is a
// comma-separated division list or "ALL"; unknown divisions are returned
// alongside the reports.
func (s *Session) Generate(view View, value string) ([]*Report, []string, error) {
	var (
		r   *Report
		err error
	)
	switch view {
	case ViewDivision:
		r, err = s.DivisionReport(value)
	case ViewInstructor:
		r, err = s.InstructorReport(value)
	case ViewCourse:
		r, err = s.CourseReport(value)
	case ViewEnrollment:
		r, err = s.EnrollmentReport(value)
	case ViewDump:
		result, err := s.DivisionDump(SplitList(value))
		if err != nil {
			return nil, nil, err
		}
		return result.Reports, result.Unknown, nil
	default:
		return nil, nil, fmt.Errorf("unknown report view %q", view)
	}
	if err != nil {
		return nil, nil, err
	}
	return []*Report{r}, nil, nil
}

// SplitList splits a comma-separated list, dropping blank entries.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
