package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/meridian/internal/geomatch"
	"github.com/UnknownOlympus/meridian/internal/models"
)

// ErrCoordinateParse is returned for coordinate text that cannot become a valid position.
var ErrCoordinateParse = errors.New("failed to parse coordinate")

// ParseCoordinatePair parses "lat, lon" text as found in combined
// "Latitude / Longitude" columns. It fails unless the text splits into
// exactly two finite numbers that are within the latitude/longitude ranges.
func ParseCoordinatePair(raw string) (models.Coordinates, error) {
	const pairLength = 2

	parts := strings.Split(raw, ",")
	if len(parts) != pairLength {
		return models.Coordinates{}, fmt.Errorf("%w: %q is not a \"lat, lon\" pair", ErrCoordinateParse, raw)
	}

	lat, err := parseFinite(parts[0])
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: latitude in %q: %w", ErrCoordinateParse, raw, err)
	}
	lon, err := parseFinite(parts[1])
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: longitude in %q: %w", ErrCoordinateParse, raw, err)
	}

	return validated(lat, lon)
}

// ParseCoordinates parses latitude and longitude held in separate cells.
// A decimal comma ("-23,5505") is accepted, as pt-BR spreadsheet exports use it.
func ParseCoordinates(rawLat, rawLon string) (models.Coordinates, error) {
	lat, err := ParseCoordinate(rawLat)
	if err != nil {
		return models.Coordinates{}, err
	}
	lon, err := ParseCoordinate(rawLon)
	if err != nil {
		return models.Coordinates{}, err
	}

	return validated(lat, lon)
}

// ParseCoordinate parses a single coordinate value.
func ParseCoordinate(raw string) (float64, error) {
	val := strings.TrimSpace(raw)
	if strings.Count(val, ",") == 1 && !strings.Contains(val, ".") {
		val = strings.Replace(val, ",", ".", 1)
	}

	num, err := parseFinite(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrCoordinateParse, raw, err)
	}

	return num, nil
}

func parseFinite(raw string) (float64, error) {
	val := strings.TrimSpace(raw)
	if val == "" {
		return 0, errors.New("empty value")
	}

	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, fmt.Errorf("%q is not finite", val)
	}

	return num, nil
}

func validated(lat, lon float64) (models.Coordinates, error) {
	if err := geomatch.ValidateCoordinates(lat, lon); err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %w", ErrCoordinateParse, err)
	}

	return models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
