package geomatch_test

import (
	"math"
	"testing"

	"github.com/UnknownOlympus/meridian/internal/geomatch"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointOnEquator places a point km kilometers east of (0, 0).
func pointOnEquator(id string, km float64) models.LocatedPoint {
	return models.NewLocatedPoint(id, 0, km/(geomatch.EarthRadiusKm*math.Pi/180))
}

func TestWithinRadius(t *testing.T) {
	t.Parallel()

	origin := models.NewLocatedPoint("tech", 0, 0)

	t.Run("sorted by ascending distance", func(t *testing.T) {
		t.Parallel()

		customers := []models.LocatedPoint{
			pointOnEquator("at-50", 50),
			pointOnEquator("at-10", 10),
			pointOnEquator("at-30", 30),
		}

		res, err := geomatch.WithinRadius(origin, customers, 40)

		require.NoError(t, err)
		assert.Equal(t, "tech", res.TechnicianID)
		assert.Equal(t, 40.0, res.RadiusKm)
		assert.Equal(t, []string{"at-10", "at-30"}, res.CustomerIDs())
		assert.InDelta(t, 10, res.Customers[0].DistanceKm, 1e-6)
		assert.InDelta(t, 30, res.Customers[1].DistanceKm, 1e-6)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		t.Parallel()

		customers := []models.LocatedPoint{
			models.NewLocatedPoint("north", 1, 0),
			pointOnEquator("near", 5),
			models.NewLocatedPoint("south", -1, 0),
			models.NewLocatedPoint("east", 0, 1),
		}

		res, err := geomatch.WithinRadius(origin, customers, 500)

		require.NoError(t, err)
		assert.Equal(t, []string{"near", "north", "south", "east"}, res.CustomerIDs())
	})

	t.Run("radius is inclusive", func(t *testing.T) {
		t.Parallel()

		edge := pointOnEquator("edge", 25)
		dist, err := geomatch.DistanceKm(origin, edge)
		require.NoError(t, err)

		res, err := geomatch.WithinRadius(origin, []models.LocatedPoint{edge}, dist)

		require.NoError(t, err)
		assert.Equal(t, []string{"edge"}, res.CustomerIDs())
	})

	t.Run("zero radius keeps only co-located customers", func(t *testing.T) {
		t.Parallel()

		customers := []models.LocatedPoint{
			pointOnEquator("close", 0.001),
			models.NewLocatedPoint("same-1", 0, 0),
			pointOnEquator("far", 100),
			models.NewLocatedPoint("same-2", 0, 0),
		}

		res, err := geomatch.WithinRadius(origin, customers, 0)

		require.NoError(t, err)
		assert.Equal(t, []string{"same-1", "same-2"}, res.CustomerIDs())
		for _, c := range res.Customers {
			assert.Zero(t, c.DistanceKm)
		}
	})

	t.Run("entries carry position and attributes", func(t *testing.T) {
		t.Parallel()

		tech := models.NewLocatedPoint("tech-sp", saoPaulo.Latitude, saoPaulo.Longitude)
		customer := campinas
		customer.Attributes = map[string]string{"unit": "Campinas", "fleet": "12"}

		res, err := geomatch.WithinRadius(tech, []models.LocatedPoint{customer}, 200)

		require.NoError(t, err)
		assert.Equal(t, saoPaulo.Coordinates(), res.Position)
		require.Len(t, res.Customers, 1)
		assert.InDelta(t, campinas.Latitude, res.Customers[0].Latitude, 0)
		assert.InDelta(t, campinas.Longitude, res.Customers[0].Longitude, 0)
		assert.Equal(t, "Campinas", res.Customers[0].Attributes["unit"])
		assert.Equal(t, "12", res.Customers[0].Attributes["fleet"])
	})

	t.Run("no customers yields an empty result", func(t *testing.T) {
		t.Parallel()

		res, err := geomatch.WithinRadius(origin, nil, 200)

		require.NoError(t, err)
		assert.NotNil(t, res.Customers)
		assert.Empty(t, res.Customers)
	})

	t.Run("negative radius is rejected", func(t *testing.T) {
		t.Parallel()

		for _, radius := range []float64{-0.1, math.NaN()} {
			_, err := geomatch.WithinRadius(origin, []models.LocatedPoint{origin}, radius)
			require.ErrorIs(t, err, geomatch.ErrInvalidParameter)
		}
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		t.Parallel()

		customers := []models.LocatedPoint{
			pointOnEquator("c", 30),
			pointOnEquator("a", 10),
			pointOnEquator("b", 20),
		}
		snapshot := append([]models.LocatedPoint(nil), customers...)

		_, err := geomatch.WithinRadius(origin, customers, 100)

		require.NoError(t, err)
		assert.Equal(t, snapshot, customers)
	})
}
