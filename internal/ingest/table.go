// Package ingest turns loosely formatted spreadsheets into validated points.
//
// Loading (Source), header detection (Resolver), coordinate parsing and row
// validation are separate steps, so the matching engine only ever sees
// points with valid coordinates and non-empty identifiers.
package ingest

import "context"

// Table is a raw dataset: a header row followed by string cells.
type Table struct {
	Name    string     // Name identifies the dataset in logs and diagnostics.
	Columns []string   // Columns holds the header cells in sheet order.
	Rows    [][]string // Rows holds the data rows; a row may be shorter than Columns.
}

// Cell returns the trimmed value at row/col, or an empty string when the row is short.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}

	return trimCell(t.Rows[row][col])
}

// Source loads a table. Each call returns a fresh snapshot.
type Source interface {
	Name() string
	Load(ctx context.Context) (Table, error)
}
