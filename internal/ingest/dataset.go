package ingest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/UnknownOlympus/meridian/internal/models"
)

// ErrMissingID is returned for rows without an identifier.
var ErrMissingID = errors.New("missing identifier")

// RowError explains why a row was left out of a dataset.
type RowError struct {
	Dataset string `json:"dataset"`
	Row     int    `json:"row"` // Row is the 1-based sheet row; the header is row 1.
	ID      string `json:"id,omitempty"`
	Err     error  `json:"-"`
}

func (e *RowError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s row %d (%s): %v", e.Dataset, e.Row, e.ID, e.Err)
	}

	return fmt.Sprintf("%s row %d: %v", e.Dataset, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Record is an accepted row. Records that need geocoding carry an address
// and no usable position yet.
type Record struct {
	Row            int
	Point          models.LocatedPoint
	Address        string
	NeedsGeocoding bool
}

// Dataset is the validated content of a table, in table order.
type Dataset struct {
	Name     string
	Records  []Record
	Rejected []RowError
}

// Points returns the located points, skipping records still waiting for geocoding.
func (d Dataset) Points() []models.LocatedPoint {
	points := make([]models.LocatedPoint, 0, len(d.Records))
	for _, rec := range d.Records {
		if !rec.NeedsGeocoding {
			points = append(points, rec.Point)
		}
	}

	return points
}

// Pending returns the indexes into Records that still need geocoding.
func (d Dataset) Pending() []int {
	var idx []int
	for i, rec := range d.Records {
		if rec.NeedsGeocoding {
			idx = append(idx, i)
		}
	}

	return idx
}

// WithGeocoded returns a copy of the dataset where pending records found in
// located receive their coordinates, and every other pending record is
// rejected with the error from failures (or ErrCoordinateParse).
func (d Dataset) WithGeocoded(located map[int]models.Coordinates, failures map[int]error) Dataset {
	out := Dataset{
		Name:     d.Name,
		Records:  make([]Record, 0, len(d.Records)),
		Rejected: append([]RowError(nil), d.Rejected...),
	}

	for i, rec := range d.Records {
		if !rec.NeedsGeocoding {
			out.Records = append(out.Records, rec)
			continue
		}

		coords, ok := located[i]
		if !ok {
			cause := failures[i]
			if cause == nil {
				cause = fmt.Errorf("%w: empty coordinates and no geocoder configured", ErrCoordinateParse)
			}
			out.Rejected = append(out.Rejected, RowError{Dataset: d.Name, Row: rec.Row, ID: rec.Point.ID, Err: cause})
			continue
		}

		rec.Point = clonePoint(rec.Point)
		rec.Point.Latitude = coords.Latitude
		rec.Point.Longitude = coords.Longitude
		rec.NeedsGeocoding = false
		out.Records = append(out.Records, rec)
	}

	sort.SliceStable(out.Rejected, func(i, j int) bool {
		return out.Rejected[i].Row < out.Rejected[j].Row
	})

	return out
}

// Build resolves the table's columns against schema and validates every row.
// Unresolved required columns abort the whole dataset; bad rows are
// collected in Rejected and never reach Records.
func Build(table Table, schema Schema) (Dataset, error) {
	layout, err := resolveLayout(table, schema)
	if err != nil {
		return Dataset{}, err
	}

	ds := Dataset{Name: schema.Dataset}
	for i := range table.Rows {
		rowNum := i + 2
		if isBlankRow(table.Rows[i]) {
			continue
		}

		id := table.Cell(i, layout.id)
		if id == "" {
			ds.Rejected = append(ds.Rejected, RowError{Dataset: schema.Dataset, Row: rowNum, Err: ErrMissingID})
			continue
		}

		point := models.LocatedPoint{ID: id}
		for field, col := range layout.attributes {
			if val := table.Cell(i, col); val != "" {
				if point.Attributes == nil {
					point.Attributes = make(map[string]string, len(layout.attributes))
				}
				point.Attributes[field] = val
			}
		}

		address := point.Attribute(FieldAddress)
		if layout.coordinatesEmpty(table, i) && address != "" {
			ds.Records = append(ds.Records, Record{Row: rowNum, Point: point, Address: address, NeedsGeocoding: true})
			continue
		}

		coords, errParse := layout.parse(table, i)
		if errParse != nil {
			ds.Rejected = append(ds.Rejected, RowError{Dataset: schema.Dataset, Row: rowNum, ID: id, Err: errParse})
			continue
		}

		point.Latitude = coords.Latitude
		point.Longitude = coords.Longitude
		ds.Records = append(ds.Records, Record{Row: rowNum, Point: point, Address: address})
	}

	return ds, nil
}

type layout struct {
	id         int
	combined   int
	lat        int
	lon        int
	attributes map[string]int
}

func resolveLayout(table Table, schema Schema) (layout, error) {
	index := make(map[string]int, len(table.Columns))
	for i, col := range table.Columns {
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}

	combined, err := NewResolver(schema.Coordinates).Resolve(schema.Dataset, table.Columns)
	if err != nil {
		return layout{}, err
	}

	groups := []SynonymGroup{schema.ID}
	_, hasCombined := combined[schema.Coordinates.Field]
	if !hasCombined {
		groups = append(groups, schema.Latitude, schema.Longitude)
	}
	groups = append(groups, schema.Attributes...)

	resolved, err := NewResolver(groups...).Resolve(schema.Dataset, table.Columns)
	if err != nil {
		return layout{}, err
	}

	lay := layout{
		id:         index[resolved[schema.ID.Field]],
		combined:   -1,
		lat:        -1,
		lon:        -1,
		attributes: make(map[string]int, len(schema.Attributes)),
	}
	if hasCombined {
		lay.combined = index[combined[schema.Coordinates.Field]]
	} else {
		lay.lat = index[resolved[schema.Latitude.Field]]
		lay.lon = index[resolved[schema.Longitude.Field]]
	}
	for _, attr := range schema.Attributes {
		if col, ok := resolved[attr.Field]; ok {
			lay.attributes[attr.Field] = index[col]
		}
	}

	return lay, nil
}

func (l layout) coordinatesEmpty(table Table, row int) bool {
	if l.combined >= 0 {
		return table.Cell(row, l.combined) == ""
	}

	return table.Cell(row, l.lat) == "" && table.Cell(row, l.lon) == ""
}

func (l layout) parse(table Table, row int) (models.Coordinates, error) {
	if l.combined >= 0 {
		return ParseCoordinatePair(table.Cell(row, l.combined))
	}

	return ParseCoordinates(table.Cell(row, l.lat), table.Cell(row, l.lon))
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if trimCell(cell) != "" {
			return false
		}
	}

	return true
}

func clonePoint(p models.LocatedPoint) models.LocatedPoint {
	if p.Attributes != nil {
		attrs := make(map[string]string, len(p.Attributes))
		for k, v := range p.Attributes {
			attrs[k] = v
		}
		p.Attributes = attrs
	}

	return p
}
