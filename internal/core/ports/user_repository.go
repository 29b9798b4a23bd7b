package ports

import (
	"context"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// UserRepository defines persistence operations for users and their
// owned-place sets.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts the user and sets its ID. A taken email yields
	// domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	// AddPlace adds placeID to the user's owned set. Missing user yields
	// domain.ErrUserNotFound.
	AddPlace(ctx context.Context, userID, placeID string) error
	// RemovePlace removes placeID from the user's owned set.
	RemovePlace(ctx context.Context, userID, placeID string) error
}
