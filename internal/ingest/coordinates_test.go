package ingest_test

import (
	"math"
	"testing"

	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinatePair(t *testing.T) {
	t.Parallel()

	t.Run("valid pairs", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			raw      string
			lat, lon float64
		}{
			{raw: "-23.5505, -46.6333", lat: -23.5505, lon: -46.6333},
			{raw: "  -22.9068,-43.1729  ", lat: -22.9068, lon: -43.1729},
			{raw: "90,180", lat: 90, lon: 180},
			{raw: "0 , 0", lat: 0, lon: 0},
		}

		for _, tc := range tests {
			coords, err := ingest.ParseCoordinatePair(tc.raw)
			require.NoError(t, err, tc.raw)
			assert.InDelta(t, tc.lat, coords.Latitude, 1e-12)
			assert.InDelta(t, tc.lon, coords.Longitude, 1e-12)
		}
	})

	t.Run("malformed pairs", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{
			"abc,def",
			"-23.5505",
			"",
			"1,2,3",
			"-23.5505;-46.6333",
			"NaN, 10",
			"10, Inf",
			"91, 10",
			"10, -180.01",
			", 10",
		} {
			coords, err := ingest.ParseCoordinatePair(raw)

			require.ErrorIs(t, err, ingest.ErrCoordinateParse, "input %q", raw)
			assert.False(t, math.IsNaN(coords.Latitude))
			assert.False(t, math.IsNaN(coords.Longitude))
			assert.Zero(t, coords)
		}
	})
}

func TestParseCoordinates(t *testing.T) {
	t.Parallel()

	t.Run("decimal comma", func(t *testing.T) {
		t.Parallel()

		coords, err := ingest.ParseCoordinates("-23,5505", " -46.6333 ")

		require.NoError(t, err)
		assert.InDelta(t, -23.5505, coords.Latitude, 1e-12)
		assert.InDelta(t, -46.6333, coords.Longitude, 1e-12)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		_, err := ingest.ParseCoordinates("-23.5", "200")
		require.ErrorIs(t, err, ingest.ErrCoordinateParse)
	})

	t.Run("not a number", func(t *testing.T) {
		t.Parallel()

		_, err := ingest.ParseCoordinates("sul", "-46.6")
		require.ErrorIs(t, err, ingest.ErrCoordinateParse)
	})
}
