// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/fte-report/pkg/aggregate"
	"github.com/iwvelando/fte-report/pkg/fte"
	"github.com/iwvelando/fte-report/pkg/section"
)

// FindSection finds an aggregated section row by section name.
// Returns a pointer to the row if found, nil otherwise.
func FindSection(rows []aggregate.Row, name string) *aggregate.Row {
	for i := range rows {
		if rows[i].Section != nil && rows[i].Section.SectionName == name {
			return &rows[i]
		}
	}
	return nil
}

// FindLabel finds the first aggregate row with the given label.
func FindLabel(rows []aggregate.Row, label string) *aggregate.Row {
	for i := range rows {
		if rows[i].IsAggregate() && rows[i].Label == label {
			return &rows[i]
		}
	}
	return nil
}

// Record builds a section record with numeric fields set.
func Record(name, division, faculty string, capacity, headcount float64) section.Record {
	return section.Record{
		SectionName:    name,
		Division:       division,
		FacultyName:    faculty,
		DeliveryMethod: "F2F",
		Capacity:       section.NewNumber(capacity),
		Headcount:      section.NewNumber(headcount),
	}
}

// Records is a small upload covering two divisions, three instructors, a
// duplicated face-to-face section and a row without a course code.
func Records() []section.Record {
	dup := Record("CSC-121-001", "Business", "Smith, John", 40, 20)
	dup.MeetingTimes = "TR 09:00"
	first := Record("CSC-121-001", "Business", "Smith, John", 40, 20)
	first.MeetingTimes = "MW 09:00"

	return []section.Record{
		dup,
		first,
		Record("CSC-121-002", "Business", "Jones, Mary", 20, 16),
		Record("CSC-151-001", "Business", "Smith, John", 32, 32),
		Record("MAT-171-01", "Math", "Lee, Ann", 30, 24),
		Record("MAT-171-02", "Math", "Smith, John", 25, 0),
		Record("ENG-111-01", "Math", "Lee, Ann", 20, 10),
		Record("Orientation", "Math", "Lee, Ann", 0, 10),
	}
}

// ContactHours is the reference table matching Records. ENG-111 is left
// out so that its section has no Total FTE.
func ContactHours() []section.ContactHours {
	return []section.ContactHours{
		{CourseCode: "CSC-121", Hours: section.NewNumber(4)},
		{CourseCode: "CSC-151", Hours: section.NewNumber(2)},
		{CourseCode: "MAT-171", Hours: section.NewNumber(3)},
	}
}

// Tiers is the tier table matching Records.
func Tiers() []fte.TierEntry {
	return []fte.TierEntry{
		{Key: "CSC", Multiplier: section.NewNumber(74)},
		{Key: "CSC-151", Multiplier: section.NewNumber(274)},
		{Key: "MAT", Multiplier: section.NewNumber(10)},
	}
}
