package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// LoadTable reads every row of the given table: the header comes from the
// column names and every value is rendered as text. NULL values become
// empty cells. Rows keep the order the database returns them in.
func (r *Repository) LoadTable(ctx context.Context, table string) (ingest.Table, error) {
	query := "SELECT * FROM " + pgx.Identifier(strings.Split(table, ".")).Sanitize()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return ingest.Table{}, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	var cells [][]string
	for rows.Next() {
		values, errValues := rows.Values()
		if errValues != nil {
			return ingest.Table{}, fmt.Errorf("failed to scan row of %s: %w", table, errValues)
		}

		row := make([]string, len(values))
		for i, val := range values {
			row[i] = cellText(val)
		}
		cells = append(cells, row)
	}

	if err = rows.Err(); err != nil {
		return ingest.Table{}, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Loaded table from database", "table", table, "rows", len(cells))

	return ingest.Table{Name: table, Columns: columns, Rows: cells}, nil
}

// cellText renders a decoded column value the way a spreadsheet cell would
// hold it. NUMERIC columns decode to pgtype.Numeric, whose default
// formatting is its struct fields, so they go through float64 first.
func cellText(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case pgtype.Float8:
		if !v.Valid {
			return ""
		}
		return strconv.FormatFloat(v.Float64, 'f', -1, 64)
	case pgtype.Text:
		return v.String
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// TableSource adapts a database table to ingest.Source.
type TableSource struct {
	repo  *Repository
	name  string
	table string
}

// NewTableSource creates a source for the dataset name backed by table.
func NewTableSource(repo *Repository, name, table string) *TableSource {
	return &TableSource{repo: repo, name: name, table: table}
}

// Name returns the dataset name.
func (s *TableSource) Name() string {
	return s.name
}

// Load reads a fresh snapshot of the table.
func (s *TableSource) Load(ctx context.Context) (ingest.Table, error) {
	table, err := s.repo.LoadTable(ctx, s.table)
	if err != nil {
		return ingest.Table{}, err
	}
	table.Name = s.name

	return table, nil
}
