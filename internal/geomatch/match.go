package geomatch

import (
	"fmt"
	"math"

	"github.com/UnknownOlympus/meridian/internal/models"
)

type options struct {
	speedKmh *float64
}

// Option tunes a nearest-technician query.
type Option func(*options)

// WithSpeed asks for an estimated travel time at the given average speed in km/h.
func WithSpeed(kmh float64) Option {
	return func(o *options) {
		o.speedKmh = &kmh
	}
}

func buildOptions(opts []Option) (options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.speedKmh != nil {
		speed := *o.speedKmh
		if math.IsNaN(speed) || math.IsInf(speed, 0) || speed <= 0 {
			return options{}, fmt.Errorf("%w: speed_kmh must be a positive finite number, got %v",
				ErrInvalidParameter, speed)
		}
	}

	return o, nil
}

// NearestTechnician finds the technician closest to customer.
//
// The technicians are scanned once in order; only a strictly smaller
// distance replaces the current best, so on ties the first technician in
// the slice wins. An empty slice is not an error: the result carries nil
// TechnicianID and DistanceKm.
func NearestTechnician(
	customer models.LocatedPoint,
	technicians []models.LocatedPoint,
	opts ...Option,
) (models.MatchResult, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return models.MatchResult{}, err
	}

	return nearest(customer, technicians, o)
}

// BestTechnicianForAll returns one MatchResult per customer, in customer order.
//
// The search is brute force: O(len(customers) * len(technicians)) distance
// evaluations. This is the dominant cost of a query and is fine for the
// hundreds of rows a spreadsheet holds.
func BestTechnicianForAll(
	customers, technicians []models.LocatedPoint,
	opts ...Option,
) ([]models.MatchResult, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	results := make([]models.MatchResult, 0, len(customers))
	for _, customer := range customers {
		res, errMatch := nearest(customer, technicians, o)
		if errMatch != nil {
			return nil, errMatch
		}
		results = append(results, res)
	}

	return results, nil
}

func nearest(customer models.LocatedPoint, technicians []models.LocatedPoint, o options) (models.MatchResult, error) {
	result := models.MatchResult{CustomerID: customer.ID}
	if len(technicians) == 0 {
		return result, nil
	}

	bestIdx := -1
	bestDist := math.Inf(1)
	for idx, tech := range technicians {
		dist, err := DistanceKm(customer, tech)
		if err != nil {
			return models.MatchResult{}, fmt.Errorf("failed to match customer %q: %w", customer.ID, err)
		}
		if bestIdx == -1 || dist < bestDist {
			bestIdx = idx
			bestDist = dist
		}
	}

	techID := technicians[bestIdx].ID
	result.TechnicianID = &techID
	result.DistanceKm = &bestDist

	if o.speedKmh != nil {
		hours := bestDist / *o.speedKmh
		result.EstimatedHours = &hours
	}

	return result, nil
}
