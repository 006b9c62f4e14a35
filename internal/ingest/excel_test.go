package ingest_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path, sheet string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestExcelSource_Load(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")
	ctx := t.Context()

	path := filepath.Join(dir, "clientes.xlsx")
	writeWorkbook(t, path, "Sheet1", [][]interface{}{
		{" Cliente ", "Unidade", "latitude / longitude"},
		{"Acme", "Campinas", "-22.9056, -47.0608"},
		{"Hooli", "SP", "-23.5505, -46.6333"},
	})

	t.Run("first sheet by default", func(t *testing.T) {
		src := ingest.NewExcelFileSource(ingest.DatasetCustomers, path, "")

		table, err := src.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, ingest.DatasetCustomers, src.Name())
		assert.Equal(t, ingest.DatasetCustomers, table.Name)
		assert.Equal(t, []string{"Cliente", "Unidade", "latitude / longitude"}, table.Columns)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "Hooli", table.Cell(1, 0))

		ds, err := ingest.Build(table, ingest.CustomerSchema())
		require.NoError(t, err)
		assert.Equal(t, []string{"Acme", "Hooli"}, ids(ds.Points()))
	})

	t.Run("missing sheet", func(t *testing.T) {
		src := ingest.NewExcelFileSource(ingest.DatasetCustomers, path, "Tecnicos")

		_, err := src.Load(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read sheet")
	})

	t.Run("missing file", func(t *testing.T) {
		src := ingest.NewExcelFileSource(ingest.DatasetCustomers, filepath.Join(dir, "nope.xlsx"), "")

		_, err := src.Load(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open workbook")
	})

	t.Run("empty sheet", func(t *testing.T) {
		emptyPath := filepath.Join(dir, "empty.xlsx")
		writeWorkbook(t, emptyPath, "Sheet1", nil)

		_, err := ingest.NewExcelFileSource(ingest.DatasetCustomers, emptyPath, "").Load(ctx)

		require.ErrorIs(t, err, ingest.ErrEmptySheet)
	})

	t.Run("not a workbook", func(t *testing.T) {
		junk := filet.TmpFile(t, dir, "definitely not xlsx")

		_, err := ingest.NewExcelFileSource(ingest.DatasetCustomers, junk.Name(), "").Load(ctx)

		require.Error(t, err)
	})
}

func TestExcelSource_Reader(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")

	path := filepath.Join(dir, "tecnicos.xlsx")
	writeWorkbook(t, path, "Tecnicos", [][]interface{}{
		{"Nome", "Latitude", "Longitude"},
		{"Ana", -23.5505, -46.6333},
	})

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	src, err := ingest.NewExcelReaderSource(ingest.DatasetTechnicians, &buf, "Tecnicos")
	require.NoError(t, err)

	for range 2 {
		table, errLoad := src.Load(t.Context())
		require.NoError(t, errLoad)

		ds, errBuild := ingest.Build(table, ingest.TechnicianSchema())
		require.NoError(t, errBuild)
		points := ds.Points()
		require.Len(t, points, 1)
		assert.InDelta(t, -23.5505, points[0].Latitude, 1e-9)
	}
}

func TestWriteMatches(t *testing.T) {
	t.Parallel()

	techID := "Ana"
	dist := 357.6321
	hours := 4.47040
	customers := []models.LocatedPoint{
		{ID: "Acme", Attributes: map[string]string{ingest.FieldUnit: "Campinas"}},
		{ID: "Hooli"},
	}
	results := []models.MatchResult{
		{CustomerID: "Acme", TechnicianID: &techID, DistanceKm: &dist, EstimatedHours: &hours},
		{CustomerID: "Hooli"},
	}

	var buf bytes.Buffer
	require.NoError(t, ingest.WriteMatches(&buf, customers, results))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ingest.MatchSheet}, f.GetSheetList())
	rows, err := f.GetRows(ingest.MatchSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Customer", "Unit", "Technician", "Distance (km)", "Estimated time (h)"}, rows[0])
	assert.Equal(t, []string{"Acme", "Campinas", "Ana", "357.6", "4.47"}, rows[1])
	assert.Equal(t, "Hooli", rows[2][0])
}

func TestWriteMatches_LengthMismatch(t *testing.T) {
	t.Parallel()

	err := ingest.WriteMatches(&bytes.Buffer{}, []models.LocatedPoint{{ID: "Acme"}}, nil)

	require.Error(t, err)
}
