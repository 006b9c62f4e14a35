package geomatch

import (
	"fmt"
	"math"
	"sort"

	"github.com/UnknownOlympus/meridian/internal/models"
)

// WithinRadius returns the customers whose distance to technician is at most
// radiusKm, nearest first. Customers at equal distance keep their input order.
func WithinRadius(
	technician models.LocatedPoint,
	customers []models.LocatedPoint,
	radiusKm float64,
) (models.CoverageResult, error) {
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return models.CoverageResult{}, fmt.Errorf("%w: radius_km must be non-negative, got %v",
			ErrInvalidParameter, radiusKm)
	}

	covered := make([]models.CoveredCustomer, 0)
	for _, customer := range customers {
		dist, err := DistanceKm(technician, customer)
		if err != nil {
			return models.CoverageResult{}, fmt.Errorf("failed to cover technician %q: %w", technician.ID, err)
		}
		if dist <= radiusKm {
			covered = append(covered, models.CoveredCustomer{
				CustomerID: customer.ID,
				DistanceKm: dist,
				Latitude:   customer.Latitude,
				Longitude:  customer.Longitude,
				Attributes: customer.Attributes,
			})
		}
	}

	sort.SliceStable(covered, func(i, j int) bool {
		return covered[i].DistanceKm < covered[j].DistanceKm
	})

	return models.CoverageResult{
		TechnicianID: technician.ID,
		Position:     technician.Coordinates(),
		RadiusKm:     radiusKm,
		Customers:    covered,
	}, nil
}
