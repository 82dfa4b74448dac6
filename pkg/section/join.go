package section

import "strings"

// ContactHours is one row of the contact-hours reference table.
type ContactHours struct {
	CourseCode string
	Hours      Number
}

// ContactHoursTable maps a course code to its weekly contact hours.
type ContactHoursTable struct {
	hours      map[string]Number
	duplicates int
}

// NewContactHoursTable indexes reference rows by course code. Rows without
// a code are ignored and the first row for a code wins.
func NewContactHoursTable(rows []ContactHours) *ContactHoursTable {
	t := &ContactHoursTable{hours: make(map[string]Number, len(rows))}
	for _, row := range rows {
		code := strings.TrimSpace(row.CourseCode)
		if code == "" {
			continue
		}
		if _, exists := t.hours[code]; exists {
			t.duplicates++
			continue
		}
		t.hours[code] = row.Hours
	}
	return t
}

// Lookup returns the contact hours for a course code.
func (t *ContactHoursTable) Lookup(code string) (Number, bool) {
	if t == nil || code == "" {
		return Number{}, false
	}
	n, ok := t.hours[code]
	return n, ok
}

// Len is the number of distinct course codes in the table.
func (t *ContactHoursTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.hours)
}

// Duplicates is the number of reference rows dropped because their code was
// already indexed.
func (t *ContactHoursTable) Duplicates() int {
	if t == nil {
		return 0
	}
	return t.duplicates
}

// JoinStats counts how the join resolved.
type JoinStats struct {
	Matched   int
	Unmatched int
}

// Join left-joins records to the contact-hours table on course code. A
// record without a match keeps an invalid ContactHours, which later counts
// as a zero FTE contribution instead of dropping the row.
func Join(records []Record, table *ContactHoursTable) ([]Record, JoinStats) {
	var stats JoinStats
	out := make([]Record, len(records))
	for i, rec := range records {
		if hours, ok := table.Lookup(rec.CourseCode); ok {
			rec.ContactHours = hours
			stats.Matched++
		} else {
			rec.ContactHours = Number{}
			stats.Unmatched++
		}
		out[i] = rec
	}
	return out, stats
}
