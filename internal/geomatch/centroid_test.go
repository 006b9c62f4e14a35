package geomatch_test

import (
	"testing"

	"github.com/UnknownOlympus/meridian/internal/geomatch"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCentroid(t *testing.T) {
	t.Parallel()

	t.Run("mean of customer positions", func(t *testing.T) {
		t.Parallel()

		center, ok := geomatch.Centroid([]models.LocatedPoint{
			models.NewLocatedPoint("a", -20, -40),
			models.NewLocatedPoint("b", -24, -48),
			models.NewLocatedPoint("c", -22, -47),
		})

		assert.True(t, ok)
		assert.InDelta(t, -22.0, center.Latitude, 1e-12)
		assert.InDelta(t, -45.0, center.Longitude, 1e-12)
	})

	t.Run("single point", func(t *testing.T) {
		t.Parallel()

		center, ok := geomatch.Centroid([]models.LocatedPoint{saoPaulo})

		assert.True(t, ok)
		assert.Equal(t, saoPaulo.Coordinates(), center)
	})

	t.Run("no points", func(t *testing.T) {
		t.Parallel()

		center, ok := geomatch.Centroid(nil)

		assert.False(t, ok)
		assert.Zero(t, center)
	})
}
