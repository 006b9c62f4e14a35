package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned when a workbook sheet has no header row.
var ErrEmptySheet = errors.New("sheet has no header row")

// ExcelSource loads a table from an .xlsx workbook.
type ExcelSource struct {
	name  string
	sheet string
	open  func() (*excelize.File, error)
}

// NewExcelFileSource reads the workbook at path on every Load. An empty
// sheet selects the first sheet of the workbook.
func NewExcelFileSource(name, path, sheet string) *ExcelSource {
	return &ExcelSource{
		name:  name,
		sheet: sheet,
		open: func() (*excelize.File, error) {
			return excelize.OpenFile(path)
		},
	}
}

// NewExcelReaderSource buffers an uploaded workbook so it can be loaded repeatedly.
func NewExcelReaderSource(name string, r io.Reader, sheet string) (*ExcelSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook %s: %w", name, err)
	}

	return &ExcelSource{
		name:  name,
		sheet: sheet,
		open: func() (*excelize.File, error) {
			return excelize.OpenReader(bytes.NewReader(data))
		},
	}, nil
}

// Name returns the dataset name of the source.
func (s *ExcelSource) Name() string {
	return s.name
}

// Load reads the sheet; the first row is the header.
func (s *ExcelSource) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}

	f, err := s.open()
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook %s: %w", s.name, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, fmt.Errorf("workbook %s: %w", s.name, ErrEmptySheet)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, s.name, err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("sheet %q of %s: %w", sheet, s.name, ErrEmptySheet)
	}

	columns := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		columns[i] = trimCell(col)
	}

	return Table{Name: s.name, Columns: columns, Rows: rows[1:]}, nil
}

// MatchSheet is the sheet name used for exported match tables.
const MatchSheet = "Matches"

// WriteMatches writes the match table as an .xlsx workbook. results and
// customers must be parallel slices, as returned by the matching engine.
func WriteMatches(w io.Writer, customers []models.LocatedPoint, results []models.MatchResult) error {
	if len(customers) != len(results) {
		return fmt.Errorf("customers and results differ in length: %d != %d", len(customers), len(results))
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(MatchSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(MatchSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := []interface{}{"Customer", "Unit", "Technician", "Distance (km)", "Estimated time (h)"}
	if err = sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, res := range results {
		cell, errCell := excelize.CoordinatesToCellName(1, i+2)
		if errCell != nil {
			return errCell
		}
		row := []interface{}{
			res.CustomerID,
			customers[i].Attribute(FieldUnit),
			optionalString(res.TechnicianID),
			optionalRounded(res.DistanceKm, 1),
			optionalRounded(res.EstimatedHours, 2),
		}
		if err = sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err = sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err = f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(MatchSheet)
	if err != nil {
		return fmt.Errorf("failed to locate sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func optionalString(s *string) interface{} {
	if s == nil {
		return ""
	}

	return *s
}

func optionalRounded(v *float64, places int) interface{} {
	if v == nil {
		return ""
	}
	scale := math.Pow(10, float64(places))

	return math.Round(*v*scale) / scale
}
