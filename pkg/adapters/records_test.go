package adapters

import (
	"testing"

	"github.com/iwvelando/fte-report/pkg/constants"
)

func TestToDataset(t *testing.T) {
	table := RawTable{
		Header: []string{"Sec Name", " Capacity ", "FTE Count", "Sec Divisions", "Sec Faculty Info", "Term"},
		Rows: [][]string{
			{"CSC-121-001", "40", "30", "Business", "Smith, John", "2025FA"},
			{"", "", "", "", "", ""},
			{"MAT-171-01", "n/a", "12"},
		},
	}

	ds := ToDataset(table)
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds.Records))
	}
	if !ds.Has(constants.ColCapacity) {
		t.Errorf("expected trimmed header to be recorded")
	}

	first := ds.Records[0]
	if first.SectionName != "CSC-121-001" || first.Division != "Business" || first.FacultyName != "Smith, John" {
		t.Errorf("unexpected record %+v", first)
	}
	if !first.Capacity.Valid || first.Capacity.Value != 40 || first.Headcount.Value != 30 {
		t.Errorf("numeric fields not parsed: %+v", first)
	}
	if first.Extra["Term"] != "2025FA" {
		t.Errorf("Extra[Term] = %q, expected 2025FA", first.Extra["Term"])
	}
	if first.CourseCode != "" {
		t.Errorf("course code is derived later, got %q", first.CourseCode)
	}

	second := ds.Records[1]
	if second.Capacity.Valid {
		t.Errorf("malformed capacity should be invalid, got %v", second.Capacity)
	}
	if second.Division != "" || second.Extra["Term"] != "" {
		t.Errorf("short row should read blank cells, got %+v", second)
	}
}

func TestToContactHours(t *testing.T) {
	table := RawTable{
		Header: []string{"Course Code", "Sec Name", "Contact Hours"},
		Rows: [][]string{
			{"CSC-121", "", "3"},
			{"", "ENG-111-01", "4.5"},
			{"", "untitled", "2"},
		},
	}

	rows := ToContactHours(table)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].CourseCode != "CSC-121" || rows[0].Hours.Value != 3 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].CourseCode != "ENG-111" || rows[1].Hours.Value != 4.5 {
		t.Errorf("row 1 should derive its code, got %+v", rows[1])
	}
	if rows[2].CourseCode != "" {
		t.Errorf("row 2 should have no code, got %q", rows[2].CourseCode)
	}
}

func TestToTierEntries(t *testing.T) {
	table := RawTable{
		Header: []string{"Prefix/Course ID", "New Sector"},
		Rows: [][]string{
			{"CSC", "74.5"},
			{"ENG-111", "tier"},
		},
	}

	entries := ToTierEntries(table)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Key != "CSC" || entries[0].Multiplier.Value != 74.5 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Multiplier.Valid {
		t.Errorf("entry 1 multiplier should be invalid")
	}
}

func TestRowAdapterDuplicateHeader(t *testing.T) {
	table := RawTable{
		Header: []string{"Sec Name", "Sec Name"},
		Rows:   [][]string{{"first", "second"}},
	}
	table.Each(func(row RowAdapter) {
		if got := row.Get("Sec Name"); got != "first" {
			t.Errorf("Get() = %q, expected the first column to win", got)
		}
		if row.Has("Missing") {
			t.Errorf("Has(Missing) = true")
		}
	})
}
