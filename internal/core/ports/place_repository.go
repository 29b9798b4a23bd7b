package ports

import (
	"context"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// PlaceRepository defines persistence operations for places.
type PlaceRepository interface {
	// FindByID returns domain.ErrPlaceNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Place, error)
	FindByCreator(ctx context.Context, userID string) ([]*domain.Place, error)
	// Create inserts the place and sets its ID.
	Create(ctx context.Context, place *domain.Place) error
	Update(ctx context.Context, place *domain.Place) error
	Delete(ctx context.Context, id string) error
}

// Transactor runs fn as a single all-or-nothing unit. Repositories called
// with the ctx handed to fn join the transaction. A failed commit is
// reported as domain.ErrTransaction; nothing is retried.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
