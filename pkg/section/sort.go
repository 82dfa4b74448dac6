package section

import "sort"

// SortForListing orders records by division, section name and faculty, the
// order the uploaded table is kept in. Blank keys sort last.
func SortForListing(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Division != b.Division {
			return LessEmptyLast(a.Division, b.Division)
		}
		if a.SectionName != b.SectionName {
			return LessEmptyLast(a.SectionName, b.SectionName)
		}
		return LessEmptyLast(a.FacultyName, b.FacultyName)
	})
}

// SortByCourse orders records by course code and then section name.
func SortByCourse(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.CourseCode != b.CourseCode {
			return LessEmptyLast(a.CourseCode, b.CourseCode)
		}
		return LessEmptyLast(a.SectionName, b.SectionName)
	})
}

// SortBySection orders records by section name.
func SortBySection(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return LessEmptyLast(records[i].SectionName, records[j].SectionName)
	})
}
