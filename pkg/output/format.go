// Package output provides utilities for formatting and displaying report tables.
package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table is a report already converted to display strings.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	// Summary lines are printed after the table as "label: value".
	Summary []SummaryLine
}

// SummaryLine is one labelled scalar printed under a table.
type SummaryLine struct {
	Label string
	Value string
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, tables ...Table) {
	for i, table := range tables {
		widths := columnWidths(table)
		if table.Title != "" {
			fmt.Fprintf(w, "--- %s ---\n", table.Title)
		}

		separators := make([]string, len(table.Columns))
		for c := range table.Columns {
			separators[c] = strings.Repeat("_", widths[c])
		}
		writePrettyLine(w, table.Columns, widths)
		writePrettyLine(w, separators, widths)
		for _, row := range table.Rows {
			writePrettyLine(w, row, widths)
		}

		if len(table.Summary) > 0 {
			fmt.Fprintf(w, "\n")
			for _, line := range table.Summary {
				fmt.Fprintf(w, "%s: %s\n", line.Label, line.Value)
			}
		}
		if i < len(tables)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format. Every field is quoted.
func CsvFormat(w io.Writer, table Table) {
	writeCsvLine(w, table.Columns)
	for _, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		copy(cells, row)
		writeCsvLine(w, cells)
	}
}

// CsvString returns CsvFormat output as a string.
func CsvString(table Table) string {
	var buf bytes.Buffer
	CsvFormat(&buf, table)
	return buf.String()
}

// Write renders the table in the named format: "csv" or anything else for
// the pretty format.
func Write(w io.Writer, format string, table Table) {
	if format == "csv" {
		CsvFormat(w, table)
		return
	}
	PrettyFormat(w, table)
}

func columnWidths(table Table) []int {
	widths := make([]int, len(table.Columns))
	for c, col := range table.Columns {
		widths[c] = utf8.RuneCountInString(col)
	}
	for _, row := range table.Rows {
		for c := 0; c < len(widths) && c < len(row); c++ {
			if n := utf8.RuneCountInString(row[c]); n > widths[c] {
				widths[c] = n
			}
		}
	}
	return widths
}

func writePrettyLine(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(widths))
	for c := range widths {
		cell := ""
		if c < len(cells) {
			cell = cells[c]
		}
		parts[c] = cell + strings.Repeat(" ", widths[c]-utf8.RuneCountInString(cell))
	}
	fmt.Fprintf(w, "%s\n", strings.TrimRight(strings.Join(parts, " | "), " "))
}

func writeCsvLine(w io.Writer, cells []string) {
	quoted := make([]string, len(cells))
	for i, cell := range cells {
		quoted[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	fmt.Fprintf(w, "%s\n", strings.Join(quoted, ","))
}
