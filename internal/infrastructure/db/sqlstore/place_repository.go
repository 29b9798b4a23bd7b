package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// PlaceRepository implements ports.PlaceRepository.
type PlaceRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

func (r *PlaceRepository) FindByID(ctx context.Context, id string) (*domain.Place, error) {
	var m placeModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("%w: find place: %w", domain.ErrStorage, err)
	}
	return m.toDomain(), nil
}

func (r *PlaceRepository) FindByCreator(ctx context.Context, userID string) ([]*domain.Place, error) {
	var models []placeModel
	if err := conn(ctx, r.db).Where("creator = ?", userID).Order("created_at").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: list places: %w", domain.ErrStorage, err)
	}
	places := make([]*domain.Place, 0, len(models))
	for i := range models {
		places = append(places, models[i].toDomain())
	}
	return places, nil
}

func (r *PlaceRepository) Create(ctx context.Context, place *domain.Place) error {
	m := placeModel{
		ID:          uuid.NewString(),
		Title:       place.Title,
		Description: place.Description,
		Address:     place.Address,
		Lat:         place.Location.Lat,
		Lng:         place.Location.Lng,
		Image:       place.Image,
		Creator:     place.Creator,
		CreatedAt:   place.CreatedAt,
		UpdatedAt:   place.UpdatedAt,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return fmt.Errorf("insert place: %w", err)
	}
	place.ID = m.ID
	return nil
}

func (r *PlaceRepository) Update(ctx context.Context, place *domain.Place) error {
	res := conn(ctx, r.db).Model(&placeModel{}).
		Where("id = ?", place.ID).
		Updates(map[string]any{
			"title":       place.Title,
			"description": place.Description,
			"updated_at":  place.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: update place: %w", domain.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPlaceNotFound
	}
	return nil
}

func (r *PlaceRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&placeModel{})
	if res.Error != nil {
		return fmt.Errorf("delete place: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPlaceNotFound
	}
	return nil
}
