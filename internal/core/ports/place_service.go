package ports

import (
	"context"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// CreatePlaceInput carries all data needed to create a place.
type CreatePlaceInput struct {
	Title       string  `validate:"required"`
	Description string  `validate:"required,min=5"`
	Address     string  `validate:"required"`
	Image       *Upload `validate:"required"`
}

// UpdatePlaceInput carries the mutable fields of a place.
type UpdatePlaceInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required,min=5"`
}

// PlaceService defines the ownership-guarded place operations. Mutations
// require a verified identity.
type PlaceService interface {
	GetPlace(ctx context.Context, placeID string) (*domain.Place, error)
	ListPlacesByUser(ctx context.Context, userID string) ([]*domain.Place, error)
	CreatePlace(ctx context.Context, identity domain.Identity, input CreatePlaceInput) (*domain.Place, error)
	UpdatePlace(ctx context.Context, identity domain.Identity, placeID string, input UpdatePlaceInput) (*domain.Place, error)
	DeletePlace(ctx context.Context, identity domain.Identity, placeID string) error
}
