package adapters

import (
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/coursecode"
	"github.com/iwvelando/fte-report/pkg/fte"
	"github.com/iwvelando/fte-report/pkg/section"
)

// known columns are mapped onto Record fields; everything else goes to Extra.
var known = map[string]struct{}{
	constants.ColSecName:      {},
	constants.ColCourseCode:   {},
	constants.ColCapacity:     {},
	constants.ColFTECount:     {},
	constants.ColDivision:     {},
	constants.ColFaculty:      {},
	constants.ColDelivery:     {},
	constants.ColMeetingTimes: {},
	constants.ColContactHours: {},
}

// ToDataset converts an uploaded section table. Numeric columns that fail
// to parse become invalid numbers; no row is rejected.
func ToDataset(t RawTable) section.Dataset {
	ds := section.Dataset{Columns: t.Columns()}
	t.Each(func(row RowAdapter) {
		rec := section.Record{
			SectionName:    row.Get(constants.ColSecName),
			CourseCode:     row.Get(constants.ColCourseCode),
			DeliveryMethod: row.Get(constants.ColDelivery),
			MeetingTimes:   row.Get(constants.ColMeetingTimes),
			Division:       row.Get(constants.ColDivision),
			FacultyName:    row.Get(constants.ColFaculty),
			Capacity:       section.ParseNumber(row.Get(constants.ColCapacity)),
			Headcount:      section.ParseNumber(row.Get(constants.ColFTECount)),
			ContactHours:   section.ParseNumber(row.Get(constants.ColContactHours)),
		}
		for _, col := range ds.Columns {
			if _, ok := known[col]; ok || col == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[col] = row.Get(col)
		}
		ds.Records = append(ds.Records, rec)
	})
	return ds
}

// ToContactHours converts the contact-hours reference table. When a row has
// no course code it is derived from the section name, if the table has one.
func ToContactHours(t RawTable) []section.ContactHours {
	var out []section.ContactHours
	t.Each(func(row RowAdapter) {
		code := row.Get(constants.ColCourseCode)
		if code == "" {
			code, _ = coursecode.Extract(row.Get(constants.ColSecName))
		}
		out = append(out, section.ContactHours{
			CourseCode: code,
			Hours:      section.ParseNumber(row.Get(constants.ColContactHours)),
		})
	})
	return out
}

// ToTierEntries converts the tier reference table.
func ToTierEntries(t RawTable) []fte.TierEntry {
	var out []fte.TierEntry
	t.Each(func(row RowAdapter) {
		out = append(out, fte.TierEntry{
			Key:        row.Get(constants.ColTierKey),
			Multiplier: section.ParseNumber(row.Get(constants.ColTierMultiplier)),
		})
	})
	return out
}
