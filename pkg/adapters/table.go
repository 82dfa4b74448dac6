// Package adapters converts header-keyed raw tables, as read from CSV or
// spreadsheet files, into the typed records the report engine works on.
package adapters

import "strings"

// RawTable is a header row and the data rows under it. Rows may be shorter
// or longer than the header.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// RowAdapter exposes one raw row by column name.
type RowAdapter struct {
	index map[string]int
	cells []string
}

// Columns returns the trimmed header names in order.
func (t RawTable) Columns() []string {
	cols := make([]string, len(t.Header))
	for i, h := range t.Header {
		cols[i] = strings.TrimSpace(h)
	}
	return cols
}

func (t RawTable) index() map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		name := strings.TrimSpace(h)
		if _, exists := idx[name]; !exists {
			idx[name] = i
		}
	}
	return idx
}

// Each calls fn for every row that is not entirely blank.
func (t RawTable) Each(fn func(RowAdapter)) {
	idx := t.index()
	for _, cells := range t.Rows {
		if blank(cells) {
			continue
		}
		fn(RowAdapter{index: idx, cells: cells})
	}
}

// Has reports whether the table has the named column.
func (r RowAdapter) Has(column string) bool {
	_, ok := r.index[column]
	return ok
}

// Get returns the trimmed cell under column, or "" when the column or cell
// is absent.
func (r RowAdapter) Get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
