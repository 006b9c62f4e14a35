package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/meridian/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider implements the Provider interface using the Google Maps Geocoding API.
// Each address is sent as a single request; the API does its own fuzzy
// matching, so no fallback variations are tried.
type GoogleProvider struct {
	client GoogleAPIClient // Google Maps API client
	region string          // ccTLD used to bias results, e.g. "br"; empty for no bias
	log    *slog.Logger    // Logger for logging operations
}

// GoogleAPIClient defines the interface for the Google Maps geocoding call.
// *maps.Client satisfies it, and this allows for easy mocking in tests.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API answers without any result.
// It is also used by callers when a provider hands back no coordinates at all.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider creates a Google Maps provider around an existing client.
//
// Parameters:
//   - client: the Google Maps API client, usually a *maps.Client built with an API key
//   - region: the ccTLD sent as region bias with every request; empty disables biasing
//   - log: the logger used for debug output
func NewGoogleProvider(client GoogleAPIClient, region string, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, region: region, log: log}
}

// Geocode converts an address to geographic coordinates using the Google Maps API.
//
// The request carries the configured region bias. When the API returns several
// candidates the first one, which Google ranks as the best match, is used.
// Transport and API errors are wrapped and returned; an answer without results
// yields ErrEmptyResponse.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address, Region: gp.region}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrEmptyResponse
	}
	location := geocodeResponse[0].Geometry.Location

	return &models.Coordinates{Latitude: location.Lat, Longitude: location.Lng}, nil
}
