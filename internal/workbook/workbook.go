// Package workbook exports report tables as styled spreadsheet files.
package workbook

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/iwvelando/fte-report/internal/report"
	"github.com/iwvelando/fte-report/pkg/aggregate"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/format"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	currencyFormat = "$#,##0.00"
	totalFill      = "E0E0E0"
)

// numericColumns are written as numbers rather than text when they parse.
var numericColumns = map[string]bool{
	constants.ColCapacity:     true,
	constants.ColFTECount:     true,
	constants.ColContactHours: true,
	constants.ColTotalFTE:     true,
}

// Sheet is one worksheet to write: a report and the name to give it.
type Sheet struct {
	Name   string
	Report *report.Report
}

// Exporter writes report workbooks.
type Exporter struct {
	logger *zap.Logger
	dir    string
}

// NewExporter creates an exporter that saves into dir.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewExporter(logger *zap.Logger, dir string) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		dir = "."
	}
	return &Exporter{logger: logger, dir: dir}
}

// SheetsFor lays out the sheets of a single report export.
func SheetsFor(r *report.Report) []Sheet {
	return []Sheet{{Name: SheetName(r), Report: r}}
}

// DumpSheets lays out a division dump: one sheet for a single division,
// otherwise one sheet per division named after it.
func DumpSheets(result *report.DumpResult) []Sheet {
	if len(result.Reports) == 1 {
		return SheetsFor(result.Reports[0])
	}
	sheets := make([]Sheet, 0, len(result.Reports))
	for _, r := range result.Reports {
		sheets = append(sheets, Sheet{Name: dumpSheetName(r.Label), Report: r})
	}
	return sheets
}

// Write streams a workbook holding the given sheets to w. The workbook is
// closed on every path.
func (e *Exporter) Write(w io.Writer, sheets ...Sheet) (err error) {
	f, err := build(sheets)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save writes the sheets to name inside the export directory and returns
// the full path.
func (e *Exporter) Save(name string, sheets ...Sheet) (path string, err error) {
	path = filepath.Join(e.dir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := e.Write(out, sheets...); err != nil {
		return "", err
	}
	e.logger.Info("saved workbook",
		zap.String("op", "workbook.Save"),
		zap.String("path", path),
		zap.Int("sheets", len(sheets)),
	)
	return path, nil
}

// SaveReport saves a single report under its standard file name.
func (e *Exporter) SaveReport(r *report.Report) (string, error) {
	return e.Save(FileName(r), SheetsFor(r)...)
}

// SaveDump saves a division dump under its standard file name.
func (e *Exporter) SaveDump(result *report.DumpResult) (string, error) {
	return e.Save(DumpFileName(result), DumpSheets(result)...)
}

func build(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	styles := newStyleCache(f)
	for i, sheet := range sheets {
		var err error
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), sheet.Name)
		} else {
			_, err = f.NewSheet(sheet.Name)
		}
		if err == nil {
			err = writeSheet(f, styles, sheet)
		}
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, styles *styleCache, sheet Sheet) error {
	r := sheet.Report
	table := r.Table()
	widths := make([]int, len(table.Columns))

	for c, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, col); err != nil {
			return err
		}
		if err := styles.apply(sheet.Name, cell, cellStyle{bold: true}); err != nil {
			return err
		}
		widths[c] = utf8.RuneCountInString(col)
	}

	grandIndex := -1
	if n := len(r.Rows); n > 0 && r.Rows[n-1].Kind == aggregate.KindGrandTotal {
		grandIndex = n - 1
	}

	for i, cells := range table.Rows {
		kind := r.Rows[i].Kind
		for c, text := range cells {
			col := table.Columns[c]
			cell, err := excelize.CoordinatesToCellName(c+1, i+2)
			if err != nil {
				return err
			}

			style := cellStyle{
				bold:         kind != aggregate.KindSection,
				fill:         i == grandIndex,
				borderBottom: grandIndex > 0 && i == grandIndex-1,
			}

			value, numFmt, err := cellValue(col, text, r.Rows[i], r.TotalPlaces())
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", i+2, col, err)
			}
			style.numFmt = numFmt
			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				return err
			}
			if err := styles.apply(sheet.Name, cell, style); err != nil {
				return err
			}
			if n := utf8.RuneCountInString(text); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for c, w := range widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, name, name, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}

// cellValue turns display text back into the value stored in the cell.
// Generated FTE is parsed back from its currency text. Total FTE keeps the
// row's full precision and only its number format follows the view.
func cellValue(col, text string, row aggregate.Row, totalPlaces int) (interface{}, string, error) {
	if text == "" {
		return "", "", nil
	}
	if col == constants.ColTotalFTE && row.TotalFTE.Valid {
		return row.TotalFTE.Value, "0." + strings.Repeat("0", totalPlaces), nil
	}
	if col == constants.ColGeneratedFTE {
		v, err := format.ParseCurrency(text)
		if err != nil {
			return nil, "", err
		}
		return v, currencyFormat, nil
	}
	if numericColumns[col] {
		if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			if col == constants.ColTotalFTE {
				return v, "0." + strings.Repeat("0", totalPlaces), nil
			}
			return v, "", nil
		}
	}
	return text, "", nil
}

// cellStyle is the set of formatting options a cell can carry.
type cellStyle struct {
	bold         bool
	fill         bool
	borderBottom bool
	numFmt       string
}

type styleCache struct {
	f   *excelize.File
	ids map[cellStyle]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: make(map[cellStyle]int)}
}

func (s *styleCache) apply(sheet, cell string, cs cellStyle) error {
	if cs == (cellStyle{}) {
		return nil
	}
	id, ok := s.ids[cs]
	if !ok {
		style := &excelize.Style{Font: &excelize.Font{Bold: cs.bold}}
		if cs.fill {
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{totalFill}}
		}
		if cs.borderBottom {
			style.Border = []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}}
		}
		if cs.numFmt != "" {
			numFmt := cs.numFmt
			style.CustomNumFmt = &numFmt
		}
		var err error
		id, err = s.f.NewStyle(style)
		if err != nil {
			return fmt.Errorf("failed to create style: %w", err)
		}
		s.ids[cs] = id
	}
	return s.f.SetCellStyle(sheet, cell, cell, id)
}
