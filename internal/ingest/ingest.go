// Package ingest reads the section upload and the two reference tables from
// CSV or spreadsheet files and converts them into typed records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/fte-report/pkg/adapters"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/fte"
	"github.com/iwvelando/fte-report/pkg/section"
	"github.com/iwvelando/fte-report/pkg/validation"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Format is the file format of an input table.
type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
)

// ErrUnsupportedFormat is returned for file names that are neither CSV nor
// spreadsheet files.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// RequiredSectionColumns must be present for an upload to be read at all.
// Each report checks the further columns it uses.
var RequiredSectionColumns = []string{constants.ColSecName}

// DetectFormat chooses the reader from a file name extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

// ReadCSV reads a comma-separated table. The first record is the header.
func ReadCSV(src io.Reader) (adapters.RawTable, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return adapters.RawTable{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return adapters.RawTable{}, nil
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return adapters.RawTable{Header: header, Rows: records[1:]}, nil
}

// ReadXLSX reads the first worksheet of a workbook. The first row is the
// header. Cells are read unformatted so numbers keep full precision.
func ReadXLSX(src io.Reader) (table adapters.RawTable, err error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return adapters.RawTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return adapters.RawTable{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return adapters.RawTable{}, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return adapters.RawTable{}, nil
	}
	return adapters.RawTable{Header: rows[0], Rows: rows[1:]}, nil
}

// Reader loads input tables and checks their shape.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new reader with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

// ReadTable reads a table in the format implied by filename.
func (r *Reader) ReadTable(filename string, src io.Reader) (adapters.RawTable, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return adapters.RawTable{}, err
	}
	var table adapters.RawTable
	switch format {
	case FormatXLSX:
		table, err = ReadXLSX(src)
	default:
		table, err = ReadCSV(src)
	}
	if err != nil {
		return adapters.RawTable{}, fmt.Errorf("read %s: %w", filepath.Base(filename), err)
	}
	r.logger.Debug("read table",
		zap.String("op", "ingest.ReadTable"),
		zap.String("file", filepath.Base(filename)),
		zap.Int("columns", len(table.Header)),
		zap.Int("rows", len(table.Rows)),
	)
	return table, nil
}

// Sections reads a section upload. A missing required column is a
// *validation.StructuralError.
func (r *Reader) Sections(filename string, src io.Reader) (section.Dataset, error) {
	table, err := r.ReadTable(filename, src)
	if err != nil {
		return section.Dataset{}, err
	}
	if err := validation.RequireColumns(validation.TableSections, table.Header, RequiredSectionColumns...); err != nil {
		return section.Dataset{}, err
	}
	return adapters.ToDataset(table), nil
}

// ContactHours reads the contact-hours reference table. The table needs a
// Contact Hours column and either Course Code or Sec Name to key it.
func (r *Reader) ContactHours(filename string, src io.Reader) ([]section.ContactHours, error) {
	table, err := r.ReadTable(filename, src)
	if err != nil {
		return nil, err
	}
	if err := validation.RequireColumns(validation.TableContactHours, table.Header, constants.ColContactHours); err != nil {
		return nil, err
	}
	if validation.RequireColumns(validation.TableContactHours, table.Header, constants.ColCourseCode) != nil &&
		validation.RequireColumns(validation.TableContactHours, table.Header, constants.ColSecName) != nil {
		return nil, &validation.StructuralError{Table: validation.TableContactHours, Missing: []string{constants.ColCourseCode}}
	}
	return adapters.ToContactHours(table), nil
}

// Tiers reads the tier reference table.
func (r *Reader) Tiers(filename string, src io.Reader) ([]fte.TierEntry, error) {
	table, err := r.ReadTable(filename, src)
	if err != nil {
		return nil, err
	}
	if err := validation.RequireColumns(validation.TableTiers, table.Header, constants.ColTierKey, constants.ColTierMultiplier); err != nil {
		return nil, err
	}
	return adapters.ToTierEntries(table), nil
}

// SectionsFile reads a section upload from disk.
func (r *Reader) SectionsFile(path string) (section.Dataset, error) {
	var ds section.Dataset
	err := withFile(path, func(f io.Reader) (err error) {
		ds, err = r.Sections(path, f)
		return err
	})
	return ds, err
}

// ContactHoursFile reads the contact-hours table from disk.
func (r *Reader) ContactHoursFile(path string) ([]section.ContactHours, error) {
	var rows []section.ContactHours
	err := withFile(path, func(f io.Reader) (err error) {
		rows, err = r.ContactHours(path, f)
		return err
	})
	return rows, err
}

// TiersFile reads the tier table from disk.
func (r *Reader) TiersFile(path string) ([]fte.TierEntry, error) {
	var entries []fte.TierEntry
	err := withFile(path, func(f io.Reader) (err error) {
		entries, err = r.Tiers(path, f)
		return err
	})
	return entries, err
}

// References is the pair of read-only reference tables shared by every
// report of a process.
type References struct {
	ContactHours *section.ContactHoursTable
	Tiers        *fte.TierTable
}

// LoadReferences reads and indexes both reference tables.
func (r *Reader) LoadReferences(contactHoursPath, tiersPath string) (*References, error) {
	hours, err := r.ContactHoursFile(contactHoursPath)
	if err != nil {
		return nil, err
	}
	tiers, err := r.TiersFile(tiersPath)
	if err != nil {
		return nil, err
	}

	refs := &References{
		ContactHours: section.NewContactHoursTable(hours),
		Tiers:        fte.NewTierTable(tiers),
	}
	r.logger.Info("loaded reference tables",
		zap.String("op", "ingest.LoadReferences"),
		zap.Int("contactHourCodes", refs.ContactHours.Len()),
		zap.Int("duplicateContactHourRows", refs.ContactHours.Duplicates()),
		zap.Int("tierKeys", refs.Tiers.Len()),
	)
	return refs, nil
}

func withFile(path string, fn func(io.Reader) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
