// Package service loads customer and technician tables into immutable
// snapshots and answers match, coverage and summary queries over them.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/metrics"
)

// ErrTechnicianNotFound is returned by Coverage for an id missing from the snapshot.
var ErrTechnicianNotFound = errors.New("technician not found")

// Service builds snapshots and runs the geomatch queries against them.
type Service struct {
	log          *slog.Logger       // Logger for logging service activities
	provider     geocoding.Provider // Geocoding provider for rows without coordinates, nil when disabled
	providerName string             // Name of the provider for metrics labeling
	metrics      *metrics.Metrics   // Metrics for tracking service performance
	numWorkers   int                // Number of concurrent geocoding workers
}

// NewService creates a new Service. provider may be nil, in which case rows
// that would need geocoding are rejected.
func NewService(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	numWorkers int,
) *Service {
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &Service{
		log:          log,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		numWorkers:   numWorkers,
	}
}

// LoadSnapshot reads both sources, validates every row, geocodes the rows
// that only carry an address and returns a fresh snapshot. Rejected rows
// are logged and kept on the snapshot; they never fail the load.
func (s *Service) LoadSnapshot(ctx context.Context, customers, technicians ingest.Source) (*Snapshot, error) {
	custDS, err := s.loadDataset(ctx, customers, ingest.CustomerSchema())
	if err != nil {
		return nil, err
	}

	techDS, err := s.loadDataset(ctx, technicians, ingest.TechnicianSchema())
	if err != nil {
		return nil, err
	}

	rejected := make([]ingest.RowError, 0, len(custDS.Rejected)+len(techDS.Rejected))
	rejected = append(rejected, custDS.Rejected...)
	rejected = append(rejected, techDS.Rejected...)

	snap := &Snapshot{
		Customers:   custDS.Points(),
		Technicians: techDS.Points(),
		Rejected:    rejected,
	}

	s.log.InfoContext(ctx, "Snapshot loaded",
		"customers", len(snap.Customers),
		"technicians", len(snap.Technicians),
		"rejected", len(snap.Rejected))

	return snap, nil
}

func (s *Service) loadDataset(ctx context.Context, src ingest.Source, schema ingest.Schema) (ingest.Dataset, error) {
	table, err := src.Load(ctx)
	if err != nil {
		return ingest.Dataset{}, fmt.Errorf("failed to load %s from %s: %w", schema.Dataset, src.Name(), err)
	}

	dataset, err := ingest.Build(table, schema)
	if err != nil {
		return ingest.Dataset{}, fmt.Errorf("failed to build %s from %s: %w", schema.Dataset, src.Name(), err)
	}

	dataset, err = s.geocodePending(ctx, dataset)
	if err != nil {
		return ingest.Dataset{}, err
	}

	for _, rej := range dataset.Rejected {
		s.log.WarnContext(ctx, "Row rejected",
			"dataset", rej.Dataset,
			"source", src.Name(),
			"row", rej.Row,
			"id", rej.ID,
			"error", rej.Err)
	}

	s.metrics.RowsLoaded.WithLabelValues(schema.Dataset, "accepted").Add(float64(len(dataset.Records)))
	s.metrics.RowsLoaded.WithLabelValues(schema.Dataset, "rejected").Add(float64(len(dataset.Rejected)))

	return dataset, nil
}
