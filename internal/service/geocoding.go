package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/UnknownOlympus/meridian/internal/geomatch"
	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/models"
)

type geocodeJob struct {
	slot    int    // position in the results slice
	record  int    // index into Dataset.Records
	address string // address to resolve
}

type geocodeResult struct {
	coords *models.Coordinates
	err    error
}

// geocodePending resolves the records that only carry an address. Results
// are stored by job position, so the dataset keeps its table order no
// matter which worker finishes first.
func (s *Service) geocodePending(ctx context.Context, dataset ingest.Dataset) (ingest.Dataset, error) {
	pending := dataset.Pending()
	if len(pending) == 0 {
		return dataset, nil
	}

	if s.provider == nil {
		s.log.WarnContext(ctx, "Rows without coordinates and no geocoder configured",
			"dataset", dataset.Name, "rows", len(pending))
		return dataset.WithGeocoded(nil, nil), nil
	}

	workers := min(s.numWorkers, len(pending))
	s.log.InfoContext(ctx, "Found rows to geocode. Starting worker pool.",
		"dataset", dataset.Name,
		"jobs", len(pending),
		"num_workers", workers)

	jobs := make(chan geocodeJob, len(pending))
	results := make([]geocodeResult, len(pending))
	var wgr sync.WaitGroup

	for i := 1; i <= workers; i++ {
		wgr.Add(1)
		go s.worker(ctx, i, &wgr, jobs, results)
	}

	for slot, idx := range pending {
		jobs <- geocodeJob{slot: slot, record: idx, address: dataset.Records[idx].Address}
	}
	close(jobs)

	wgr.Wait()

	if err := ctx.Err(); err != nil {
		return ingest.Dataset{}, fmt.Errorf("geocoding %s interrupted: %w", dataset.Name, err)
	}

	located := make(map[int]models.Coordinates, len(pending))
	failures := make(map[int]error)
	for slot, idx := range pending {
		if res := results[slot]; res.err != nil {
			failures[idx] = res.err
		} else {
			located[idx] = *res.coords
		}
	}

	s.log.InfoContext(ctx, "Geocoding batch finished",
		"dataset", dataset.Name,
		"located", len(located),
		"failed", len(failures))

	return dataset.WithGeocoded(located, failures), nil
}

// worker geocodes jobs until the channel is drained or ctx is cancelled.
// Each worker writes only to the result slots of the jobs it received.
func (s *Service) worker(
	ctx context.Context,
	idx int,
	wg *sync.WaitGroup,
	jobs <-chan geocodeJob,
	results []geocodeResult,
) {
	defer wg.Done()
	for job := range jobs {
		if ctx.Err() != nil {
			results[job.slot] = geocodeResult{err: ctx.Err()}
			continue
		}

		s.metrics.ActiveWorkers.Inc()
		s.log.DebugContext(ctx, "Geocoding row", "worker", idx, "address", job.address)

		startTime := time.Now()
		coords, err := s.provider.Geocode(ctx, job.address)
		s.metrics.RequestSeconds.WithLabelValues(s.providerName).Observe(time.Since(startTime).Seconds())

		if err != nil || coords == nil {
			s.metrics.APIErrors.Inc()
		}
		if err == nil {
			err = checkGeocoded(coords)
		}

		if err != nil {
			s.log.ErrorContext(ctx, "Failed to geocode", "worker", idx, "address", job.address, "error", err)
			s.metrics.GeocodeResults.WithLabelValues("failure").Inc()
			results[job.slot] = geocodeResult{err: fmt.Errorf("failed to geocode %q: %w", job.address, err)}
		} else {
			s.metrics.GeocodeResults.WithLabelValues("success").Inc()
			results[job.slot] = geocodeResult{coords: coords}
		}

		s.metrics.ActiveWorkers.Dec()
	}
}

func checkGeocoded(coords *models.Coordinates) error {
	if coords == nil {
		return geocoding.ErrEmptyResponse
	}
	if err := geomatch.ValidateCoordinates(coords.Latitude, coords.Longitude); err != nil {
		return fmt.Errorf("%w: %w", ingest.ErrCoordinateParse, err)
	}

	return nil
}
