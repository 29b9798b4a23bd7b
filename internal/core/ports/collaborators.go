package ports

import (
	"context"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// Validator checks a tagged input struct. It returns a
// *domain.ValidationError listing every rejected field, or nil.
type Validator interface {
	Validate(i any) error
}

// Geocoder resolves a free-form address to coordinates. Zero results yield
// domain.ErrGeocoding.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (domain.Location, error)
}

// Upload is an image received from the client.
type Upload struct {
	Filename string
	Data     []byte
}

// FileStore persists uploaded images and returns a reference usable as a
// public path.
type FileStore interface {
	Store(ctx context.Context, upload Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

// AssetCleaner removes stored images outside the request path. Failures are
// logged by the implementation and never reported back.
type AssetCleaner interface {
	Discard(ref string)
}

// EventPublisher announces committed place mutations.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.PlaceEvent) error
}
