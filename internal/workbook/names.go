package workbook

import (
	"strings"

	"github.com/iwvelando/fte-report/internal/report"
	"github.com/iwvelando/fte-report/pkg/coursecode"
)

// Sheet names per view.
const (
	SheetDivision   = "Division Analysis"
	SheetInstructor = "Faculty Report"
	SheetCourse     = "Course Analysis"
	SheetEnrollment = "Enrollment"
	SheetDump       = "Full Report"

	// DumpBundleName is used when several divisions are dumped together.
	DumpBundleName = "sec_division_report.xlsx"
)

// maxSheetName is the spreadsheet limit on sheet name length.
const maxSheetName = 31

// SheetName returns the worksheet name used for a report.
func SheetName(r *report.Report) string {
	switch r.View {
	case report.ViewInstructor:
		return SheetInstructor
	case report.ViewCourse:
		return SheetCourse
	case report.ViewEnrollment:
		return SheetEnrollment
	case report.ViewDump:
		return SheetDump
	default:
		return SheetDivision
	}
}

// FileName returns the export file name for a report.
func FileName(r *report.Report) string {
	switch r.View {
	case report.ViewInstructor:
		return InstructorFileName(r.Label)
	case report.ViewCourse:
		return coursecode.Compact(r.Label) + "_FTE.xlsx"
	case report.ViewEnrollment:
		return coursecode.Compact(r.Label) + "_per.xlsx"
	case report.ViewDump:
		return divisionSlug(r.Label) + ".xlsx"
	default:
		return divisionSlug(r.Label) + "_fte.xlsx"
	}
}

// DumpFileName names the workbook of a division dump: the division's own
// name for one division, a bundle name for several.
func DumpFileName(result *report.DumpResult) string {
	if len(result.Reports) == 1 {
		return FileName(result.Reports[0])
	}
	return DumpBundleName
}

// InstructorFileName builds "<last><first initial>_FTE.xlsx" from either
// "Last, First" or "First Last", ignoring periods.
func InstructorFileName(name string) string {
	var last, first string
	if i := strings.Index(name, ","); i >= 0 {
		last, first = name[:i], name[i+1:]
	} else {
		parts := strings.Fields(name)
		switch len(parts) {
		case 0:
		case 1:
			last = parts[0]
		default:
			last, first = parts[len(parts)-1], parts[0]
		}
	}

	last = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(last, ".", "")))
	first = strings.TrimSpace(strings.ReplaceAll(first, ".", ""))
	initial := ""
	if r := []rune(first); len(r) > 0 {
		initial = strings.ToLower(string(r[0]))
	}
	stem := strings.ReplaceAll(last, " ", "") + initial
	if stem == "" {
		stem = "instructor"
	}
	return stem + "_FTE.xlsx"
}

func divisionSlug(division string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(division), "_"))
	if slug == "" {
		return "division"
	}
	return slug
}

// dumpSheetName is the sheet name of one division in a dump bundle.
func dumpSheetName(division string) string {
	name := strings.NewReplacer(":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "").Replace(division)
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if name == "" {
		return SheetDump
	}
	return name
}
