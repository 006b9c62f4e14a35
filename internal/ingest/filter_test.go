package ingest_test

import (
	"errors"
	"testing"

	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/stretchr/testify/assert"
)

var assertErr = errors.New("geocoding failed")

func samplePoints() []models.LocatedPoint {
	return []models.LocatedPoint{
		{ID: "Acme", Attributes: map[string]string{ingest.FieldUnit: "Campinas"}},
		{ID: "Globex", Attributes: map[string]string{ingest.FieldUnit: "Santos"}},
		{ID: "Hooli", Attributes: map[string]string{ingest.FieldUnit: "Campinas"}},
		{ID: "Initech"},
	}
}

func TestFilterByID(t *testing.T) {
	t.Parallel()

	points := samplePoints()

	assert.Equal(t, []string{"Acme", "Hooli"}, ids(ingest.FilterByID(points, []string{"Hooli", "Acme", "Nobody"})))
	assert.Equal(t, ids(points), ids(ingest.FilterByID(points, nil)))
	assert.Empty(t, ingest.FilterByID(nil, []string{"Acme"}))
}

func TestFilterByAttribute(t *testing.T) {
	t.Parallel()

	points := samplePoints()

	assert.Equal(t, []string{"Acme", "Hooli"},
		ids(ingest.FilterByAttribute(points, ingest.FieldUnit, []string{"Campinas"})))
	assert.Len(t, ingest.FilterByAttribute(points, ingest.FieldUnit, nil), 4)
}

func TestFilter_ReturnsNewSlice(t *testing.T) {
	t.Parallel()

	points := samplePoints()
	out := ingest.FilterByID(points, nil)
	out[0].ID = "changed"

	assert.Equal(t, "Acme", points[0].ID)
}

func TestDistinctAttribute(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, ingest.DistinctAttribute(samplePoints(), ingest.FieldUnit))
	assert.Zero(t, ingest.DistinctAttribute(nil, ingest.FieldUnit))
}
