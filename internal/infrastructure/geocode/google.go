package geocode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/pkg/metrics"
)

const defaultTimeout = 5 * time.Second

// GoogleConfig configures the Google Maps geocoder. BaseURL is only set in tests.
type GoogleConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Google resolves addresses with the Google Maps Geocoding API. Each lookup is
// a single request; failures are not retried.
type Google struct {
	client  *maps.Client
	timeout time.Duration
	log     zerolog.Logger
}

func NewGoogle(cfg GoogleConfig, log zerolog.Logger) (*Google, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("geocode client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Google{client: client, timeout: timeout, log: log}, nil
}

func (g *Google) Resolve(ctx context.Context, address string) (domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	metrics.GeocodeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		g.log.Warn().Err(err).Str("address", address).Msg("geocoding request failed")
		return domain.Location{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	// The client reports ZERO_RESULTS as an empty result set, not an error.
	if len(results) == 0 {
		metrics.GeocodeRequestsTotal.WithLabelValues("zero_results").Inc()
		return domain.Location{}, domain.ErrGeocoding
	}

	metrics.GeocodeRequestsTotal.WithLabelValues("ok").Inc()
	loc := results[0].Geometry.Location
	return domain.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
}
