package section

import (
	"sort"
	"strings"
)

// Deduplicate collapses records that share a section name. Within a name
// the record with the earliest meeting times wins; records without meeting
// times sort after those with them. The result is ordered by section name,
// so running it twice yields the same slice.
func Deduplicate(records []Record) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SectionName != sorted[j].SectionName {
			return LessEmptyLast(sorted[i].SectionName, sorted[j].SectionName)
		}
		return LessEmptyLast(strings.TrimSpace(sorted[i].MeetingTimes), strings.TrimSpace(sorted[j].MeetingTimes))
	})

	out := make([]Record, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, rec := range sorted {
		if _, dup := seen[rec.SectionName]; dup {
			continue
		}
		seen[rec.SectionName] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// LessEmptyLast orders strings ascending with blanks after everything else.
func LessEmptyLast(a, b string) bool {
	switch {
	case a == b:
		return false
	case a == "":
		return false
	case b == "":
		return true
	default:
		return a < b
	}
}
