package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/core/ports"
	"github.com/sharedplaces/places-api/internal/pkg/metrics"
)

const defaultCacheTTL = 24 * time.Hour

// Cached memoizes successful lookups in Redis.
// Key format: geocode:<normalized address>
// Zero-result answers are not cached. Redis failures fall through to the
// wrapped geocoder.
type Cached struct {
	next   ports.Geocoder
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCached(next ports.Geocoder, client *redis.Client, ttl time.Duration, log zerolog.Logger) *Cached {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cached{next: next, client: client, ttl: ttl, log: log}
}

func (c *Cached) Resolve(ctx context.Context, address string) (domain.Location, error) {
	key := c.key(address)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var loc domain.Location
		if jsonErr := json.Unmarshal(raw, &loc); jsonErr == nil {
			metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
			return loc, nil
		}
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn().Err(err).Msg("geocode cache read failed")
	}
	metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()

	loc, err := c.next.Resolve(ctx, address)
	if err != nil {
		return domain.Location{}, err
	}

	if payload, jsonErr := json.Marshal(loc); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.log.Warn().Err(setErr).Msg("geocode cache write failed")
		}
	}
	return loc, nil
}

func (c *Cached) key(address string) string {
	return fmt.Sprintf("geocode:%s", normalize(address))
}
