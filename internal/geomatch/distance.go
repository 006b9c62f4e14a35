// Package geomatch assigns technicians to customers by great-circle distance.
//
// Every function is pure: inputs are read-only snapshots, nothing is cached
// between calls, and results depend only on the arguments and their order.
package geomatch

import (
	"fmt"
	"math"

	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/golang/geo/s1"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

const (
	maxLatitude  = 90.0
	maxLongitude = 180.0
)

// ValidateCoordinates checks that lat and lon are finite and within
// [-90, 90] and [-180, 180] degrees.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -maxLatitude || lat > maxLatitude {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, lat)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -maxLongitude || lon > maxLongitude {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, lon)
	}

	return nil
}

// DistanceKm returns the haversine great-circle distance between a and b in kilometers.
func DistanceKm(a, b models.LocatedPoint) (float64, error) {
	if err := ValidateCoordinates(a.Latitude, a.Longitude); err != nil {
		return 0, fmt.Errorf("point %q: %w", a.ID, err)
	}
	if err := ValidateCoordinates(b.Latitude, b.Longitude); err != nil {
		return 0, fmt.Errorf("point %q: %w", b.ID, err)
	}

	return haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude), nil
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(radians(lat1))*math.Cos(radians(lat2))*sinLon*sinLon

	// Rounding can push h slightly past 1 for antipodal points.
	h = math.Max(0, math.Min(1, h))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}
