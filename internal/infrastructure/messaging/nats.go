package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url string, log zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("places-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// Publisher emits place events on subjects named after the event type,
// e.g. "places.created".
type Publisher struct {
	nc *nats.Conn
}

func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

func (p *Publisher) Publish(_ context.Context, event domain.PlaceEvent) error {
	if p.nc == nil || !p.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}
	if err := p.nc.Publish(string(event.Type), payload); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Noop drops every event. Used when no NATS URL is configured.
type Noop struct{}

func (Noop) Publish(context.Context, domain.PlaceEvent) error { return nil }
