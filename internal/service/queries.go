package service

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geomatch"
	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/models"
)

// Matches pairs every customer of the snapshot with its nearest technician.
// A nil speedKmh leaves EstimatedHours unset.
func (s *Service) Matches(ctx context.Context, snap *Snapshot, speedKmh *float64) ([]models.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer s.observe("matches", time.Now())

	var opts []geomatch.Option
	if speedKmh != nil {
		opts = append(opts, geomatch.WithSpeed(*speedKmh))
	}

	results, err := geomatch.BestTechnicianForAll(snap.Customers, snap.Technicians, opts...)
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "Matches computed", "customers", len(snap.Customers), "technicians", len(snap.Technicians))

	return results, nil
}

// Coverage lists the customers within radiusKm of the technician with the
// given id. With duplicate ids the first technician in the snapshot is used.
func (s *Service) Coverage(
	ctx context.Context,
	snap *Snapshot,
	technicianID string,
	radiusKm float64,
) (models.CoverageResult, error) {
	if err := ctx.Err(); err != nil {
		return models.CoverageResult{}, err
	}
	defer s.observe("coverage", time.Now())

	for _, tech := range snap.Technicians {
		if tech.ID == technicianID {
			return geomatch.WithinRadius(tech, snap.Customers, radiusKm)
		}
	}

	return models.CoverageResult{}, fmt.Errorf("%w: %s", ErrTechnicianNotFound, technicianID)
}

// Points returns the customers and technicians of the snapshot with their
// positions and attributes, centred on the mean customer position.
func (s *Service) Points(snap *Snapshot) models.MapView {
	defer s.observe("points", time.Now())

	view := models.MapView{
		Customers:   snap.Customers,
		Technicians: snap.Technicians,
	}
	if center, ok := geomatch.Centroid(snap.Customers); ok {
		view.Center = &center
	}

	return view
}

// Summary counts customers, technicians, distinct customer units and rejected rows.
func (s *Service) Summary(snap *Snapshot) Summary {
	defer s.observe("summary", time.Now())

	return Summary{
		Customers:   len(snap.Customers),
		Technicians: len(snap.Technicians),
		Units:       ingest.DistinctAttribute(snap.Customers, ingest.FieldUnit),
		Rejected:    len(snap.Rejected),
	}
}

func (s *Service) observe(query string, start time.Time) {
	s.metrics.QuerySeconds.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
