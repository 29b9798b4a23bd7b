package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/core/ports"
	"github.com/sharedplaces/places-api/internal/pkg/metrics"
)

// PlaceService coordinates place mutations with the owning user record.
// Create and delete touch both the place and the creator's owned-place set
// inside one transaction; update is a single-record write.
type PlaceService struct {
	places    ports.PlaceRepository
	users     ports.UserRepository
	tx        ports.Transactor
	geocoder  ports.Geocoder
	files     ports.FileStore
	cleaner   ports.AssetCleaner
	publisher ports.EventPublisher
	validator ports.Validator
	log       zerolog.Logger
	now       func() time.Time
}

// PlaceServiceDeps groups the collaborators of PlaceService.
type PlaceServiceDeps struct {
	Places    ports.PlaceRepository
	Users     ports.UserRepository
	Tx        ports.Transactor
	Geocoder  ports.Geocoder
	Files     ports.FileStore
	Cleaner   ports.AssetCleaner
	Publisher ports.EventPublisher
	Validator ports.Validator
}

func NewPlaceService(deps PlaceServiceDeps, log zerolog.Logger) *PlaceService {
	return &PlaceService{
		places:    deps.Places,
		users:     deps.Users,
		tx:        deps.Tx,
		geocoder:  deps.Geocoder,
		files:     deps.Files,
		cleaner:   deps.Cleaner,
		publisher: deps.Publisher,
		validator: deps.Validator,
		log:       log,
		now:       time.Now,
	}
}

// GetPlace returns a single place. No identity required.
func (s *PlaceService) GetPlace(ctx context.Context, placeID string) (*domain.Place, error) {
	place, err := s.places.FindByID(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("get place: %w", err)
	}
	return place, nil
}

// ListPlacesByUser returns every place created by userID. An unknown user
// and a user without places both yield domain.ErrPlacesNotFound.
func (s *PlaceService) ListPlacesByUser(ctx context.Context, userID string) ([]*domain.Place, error) {
	places, err := s.places.FindByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	if len(places) == 0 {
		return nil, domain.ErrPlacesNotFound
	}
	return places, nil
}

// CreatePlace geocodes the address, stores the image and atomically inserts
// the place together with the creator's owned-place reference.
func (s *PlaceService) CreatePlace(ctx context.Context, identity domain.Identity, in ports.CreatePlaceInput) (*domain.Place, error) {
	if identity.Anonymous() {
		return nil, s.fail("create", domain.ErrUnauthenticated)
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Address = strings.TrimSpace(in.Address)
	if err := s.validator.Validate(in); err != nil {
		return nil, s.fail("create", err)
	}

	location, err := s.geocoder.Resolve(ctx, in.Address)
	if err != nil {
		return nil, s.fail("create", fmt.Errorf("create place: %w", err))
	}

	creator, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.fail("create", domain.ErrCreatorNotFound)
		}
		return nil, s.fail("create", fmt.Errorf("create place: find creator: %w", err))
	}

	imageRef, err := s.files.Store(ctx, *in.Image)
	if err != nil {
		return nil, s.fail("create", fmt.Errorf("create place: %w", err))
	}

	now := s.now().UTC()
	place := &domain.Place{
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Location:    location,
		Image:       imageRef,
		Creator:     creator.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.places.Create(ctx, place); err != nil {
			return fmt.Errorf("insert place: %w", err)
		}
		if err := s.users.AddPlace(ctx, creator.ID, place.ID); err != nil {
			return fmt.Errorf("link place to creator: %w", err)
		}
		return nil
	})
	if err != nil {
		s.cleaner.Discard(imageRef)
		return nil, s.fail("create", fmt.Errorf("create place: %w", asTransactionError(err)))
	}

	metrics.PlacesCreatedTotal.Inc()
	s.log.Info().
		Str("place_id", place.ID).
		Str("creator", place.Creator).
		Msg("place created")

	loc := place.Location
	s.publish(ctx, domain.PlaceEvent{
		Type:       domain.PlaceCreated,
		PlaceID:    place.ID,
		Creator:    place.Creator,
		Title:      place.Title,
		Location:   &loc,
		OccurredAt: now,
	})

	return place, nil
}

// UpdatePlace changes title and description. Only the creator may update.
func (s *PlaceService) UpdatePlace(ctx context.Context, identity domain.Identity, placeID string, in ports.UpdatePlaceInput) (*domain.Place, error) {
	if identity.Anonymous() {
		return nil, s.fail("update", domain.ErrUnauthenticated)
	}

	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Validate(in); err != nil {
		return nil, s.fail("update", err)
	}

	place, err := s.places.FindByID(ctx, placeID)
	if err != nil {
		return nil, s.fail("update", fmt.Errorf("update place: %w", err))
	}

	if !place.OwnedBy(identity.UserID) {
		return nil, s.fail("update", domain.ErrForbidden)
	}

	place.Title = in.Title
	place.Description = in.Description
	place.UpdatedAt = s.now().UTC()

	if err := s.places.Update(ctx, place); err != nil {
		return nil, s.fail("update", fmt.Errorf("update place: %w", err))
	}

	s.log.Info().Str("place_id", place.ID).Msg("place updated")
	return place, nil
}

// DeletePlace atomically removes the place and the creator's reference to
// it, then discards the image outside the transaction.
func (s *PlaceService) DeletePlace(ctx context.Context, identity domain.Identity, placeID string) error {
	if identity.Anonymous() {
		return s.fail("delete", domain.ErrUnauthenticated)
	}

	place, err := s.places.FindByID(ctx, placeID)
	if err != nil {
		return s.fail("delete", fmt.Errorf("delete place: %w", err))
	}

	if !place.OwnedBy(identity.UserID) {
		return s.fail("delete", domain.ErrForbidden)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.places.Delete(ctx, place.ID); err != nil {
			return fmt.Errorf("remove place: %w", err)
		}
		if err := s.users.RemovePlace(ctx, place.Creator, place.ID); err != nil {
			return fmt.Errorf("unlink place from creator: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.fail("delete", fmt.Errorf("delete place: %w", asTransactionError(err)))
	}

	// The image is outside the transactional boundary; a failed removal
	// leaves an orphaned file and is only logged by the cleaner.
	if place.Image != "" {
		s.cleaner.Discard(place.Image)
	}

	metrics.PlacesDeletedTotal.Inc()
	s.log.Info().
		Str("place_id", place.ID).
		Str("creator", place.Creator).
		Msg("place deleted")

	s.publish(ctx, domain.PlaceEvent{
		Type:       domain.PlaceDeleted,
		PlaceID:    place.ID,
		Creator:    place.Creator,
		OccurredAt: s.now().UTC(),
	})

	return nil
}

func (s *PlaceService) publish(ctx context.Context, event domain.PlaceEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).
			Str("event", string(event.Type)).
			Str("place_id", event.PlaceID).
			Msg("failed to publish place event")
	}
}

// fail records the failure reason and returns err unchanged.
func (s *PlaceService) fail(op string, err error) error {
	metrics.PlaceMutationErrorsTotal.WithLabelValues(op, failureReason(err)).Inc()
	return err
}

// asTransactionError keeps domain errors raised inside the unit and reports
// everything else as a transaction failure.
func asTransactionError(err error) error {
	if domain.IsKnown(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransaction, err)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrGeocoding):
		return "geocoding"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrTransaction):
		return "transaction"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}
