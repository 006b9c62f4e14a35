package geomatch

import "github.com/UnknownOlympus/meridian/internal/models"

// Centroid returns the arithmetic mean of the points' latitudes and
// longitudes, used to centre a map on a set of customers. It reports false
// for an empty slice.
//
// The mean is taken in degrees, so it is only meaningful for points that do
// not straddle the antimeridian.
func Centroid(points []models.LocatedPoint) (models.Coordinates, bool) {
	if len(points) == 0 {
		return models.Coordinates{}, false
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLon += p.Longitude
	}
	n := float64(len(points))

	return models.Coordinates{Latitude: sumLat / n, Longitude: sumLon / n}, true
}
