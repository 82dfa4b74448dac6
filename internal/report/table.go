package report

import (
	"fmt"

	"github.com/iwvelando/fte-report/pkg/aggregate"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/format"
	"github.com/iwvelando/fte-report/pkg/output"
	"github.com/iwvelando/fte-report/pkg/section"
)

// layout is the display policy of a view.
type layout struct {
	title     string
	leadLabel string
	columns   []string

	// lead shows the report label on the first row only.
	lead string
	// group holds the group key on the first row of each group and the
	// label of aggregate rows.
	group string
	// enrollment holds the policy-formatted enrollment percentage.
	enrollment string

	totalPlaces    int
	blankNumErrors bool
	order          func([]section.Record)
	chartSize      int
}

var divisionLayout = layout{
	title:     "FTE for %s",
	leadLabel: "Division",
	columns: []string{
		constants.ColDivisionOut, constants.ColCourseCode, constants.ColSecName, constants.ColDelivery,
		constants.ColMeetingTimes, constants.ColCapacity, constants.ColFTECount, constants.ColFaculty,
		constants.ColTotalFTE, constants.ColEnrollmentPer, constants.ColGeneratedFTE,
	},
	lead:        constants.ColDivisionOut,
	group:       constants.ColCourseCode,
	enrollment:  constants.ColEnrollmentPer,
	totalPlaces: 2,
	order:       section.SortByCourse,
	chartSize:   constants.TopSectionsDivision,
}

var instructorLayout = layout{
	title:     "FTE for %s",
	leadLabel: "Instructor",
	columns: []string{
		constants.ColInstructor, constants.ColCourseCode, constants.ColSecName, constants.ColDelivery,
		constants.ColMeetingTimes, constants.ColCapacity, constants.ColFTECount, constants.ColTotalFTE,
		constants.ColDivision, constants.ColEnrollmentPer, constants.ColGeneratedFTE,
	},
	lead:           constants.ColInstructor,
	group:          constants.ColCourseCode,
	enrollment:     constants.ColEnrollmentPer,
	totalPlaces:    3,
	blankNumErrors: true,
	order:          section.SortByCourse,
	chartSize:      constants.TopSectionsInstructor,
}

var courseLayout = layout{
	title:     "FTE for %s",
	leadLabel: "Course",
	columns: []string{
		constants.ColCourseCode, constants.ColSecName, constants.ColDelivery, constants.ColFaculty,
		constants.ColMeetingTimes, constants.ColCapacity, constants.ColFTECount, constants.ColTotalFTE,
		constants.ColEnrollmentPer, constants.ColGeneratedFTE,
	},
	group:       constants.ColCourseCode,
	enrollment:  constants.ColEnrollmentPer,
	totalPlaces: 2,
	order:       section.SortBySection,
	chartSize:   constants.TopSectionsCourse,
}

var enrollmentLayout = layout{
	title:     "Enrollment for %s",
	leadLabel: "Course",
	columns: []string{
		constants.ColSecName, constants.ColDelivery, constants.ColMeetingTimes, constants.ColCapacity,
		constants.ColFTECount, constants.ColTotalFTE, constants.ColFaculty, constants.ColEnrollmentPct,
	},
	enrollment:  constants.ColEnrollmentPct,
	totalPlaces: 3,
	order:       sortByEnrollment,
}

// dumpLayout reproduces the uploaded columns, without the course code, and
// appends the computed ones the upload does not already carry.
func dumpLayout(uploaded []string) layout {
	var cols []string
	present := make(map[string]bool)
	for _, col := range uploaded {
		if col == constants.ColCourseCode || col == "" || present[col] {
			continue
		}
		present[col] = true
		cols = append(cols, col)
	}
	for _, col := range []string{constants.ColContactHours, constants.ColTotalFTE, constants.ColGeneratedFTE} {
		if !present[col] {
			cols = append(cols, col)
		}
	}
	return layout{
		title:       "Sections in %s",
		leadLabel:   "Division",
		columns:     cols,
		totalPlaces: 3,
	}
}

// Title is the heading of the report.
func (r *Report) Title() string {
	return fmt.Sprintf(r.layout.title, r.Label)
}

// Columns returns the display columns in order.
func (r *Report) Columns() []string {
	return append([]string(nil), r.layout.columns...)
}

// TotalPlaces is the number of decimals Total FTE is displayed with.
func (r *Report) TotalPlaces() int {
	return r.layout.totalPlaces
}

// Summary returns the three report-level values: label, Total FTE and
// Generated FTE.
func (r *Report) Summary() []output.SummaryLine {
	return []output.SummaryLine{
		{Label: r.layout.leadLabel, Value: r.Label},
		{Label: constants.ColTotalFTE, Value: format.Fixed(r.TotalFTE, r.layout.totalPlaces)},
		{Label: constants.ColGeneratedFTE, Value: format.Currency(r.GeneratedFTE)},
	}
}

// Table converts the report into display strings.
func (r *Report) Table() output.Table {
	t := output.Table{
		Title:   r.Title(),
		Columns: r.Columns(),
		Rows:    make([][]string, 0, len(r.Rows)),
		Summary: r.Summary(),
	}
	for i, row := range r.Rows {
		t.Rows = append(t.Rows, r.cells(i, row))
	}
	return t
}

func (r *Report) cells(index int, row aggregate.Row) []string {
	lay := r.layout
	out := make([]string, len(lay.columns))
	for c, col := range lay.columns {
		switch {
		case col == constants.ColGeneratedFTE:
			out[c] = format.Currency(row.GeneratedFTE)
		case col == constants.ColTotalFTE:
			out[c] = format.Optional(row.TotalFTE.Value, row.TotalFTE.Valid, lay.totalPlaces)
		case row.IsAggregate():
			if col == lay.group {
				out[c] = row.Label
			}
		case col == lay.lead:
			if index == 0 {
				out[c] = r.Label
			}
		case col == lay.group:
			if row.ShowGroup {
				out[c] = row.Section.CourseCode
			}
		case col == lay.enrollment:
			out[c] = row.Enrollment
		default:
			out[c] = sectionCell(col, row, lay.blankNumErrors)
		}
	}
	return out
}

func sectionCell(col string, row aggregate.Row, blankNumErrors bool) string {
	sec := row.Section
	switch col {
	case constants.ColSecName:
		return sec.SectionName
	case constants.ColCourseCode:
		return sec.CourseCode
	case constants.ColDelivery:
		return sec.DeliveryMethod
	case constants.ColMeetingTimes:
		return sec.MeetingTimes
	case constants.ColCapacity:
		return sec.Capacity.String()
	case constants.ColFTECount:
		return sec.Headcount.String()
	case constants.ColDivision:
		if blankNumErrors && sec.Division == constants.SpreadsheetNumberError {
			return ""
		}
		return sec.Division
	case constants.ColFaculty:
		return sec.FacultyName
	case constants.ColContactHours:
		return sec.ContactHours.String()
	default:
		return sec.Extra[col]
	}
}
