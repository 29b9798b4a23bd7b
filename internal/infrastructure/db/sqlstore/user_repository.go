package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository. The owned-place set lives
// in the user_places table.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	db := conn(ctx, r.db)

	var m userModel
	if err := db.Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %w", domain.ErrStorage, err)
	}

	var places []string
	if err := db.Model(&userPlaceModel{}).
		Where("user_id = ?", m.ID).
		Order("created_at").
		Pluck("place_id", &places).Error; err != nil {
		return nil, fmt.Errorf("%w: load owned places: %w", domain.ErrStorage, err)
	}
	return m.toDomain(places), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	m := userModel{
		ID:        uuid.NewString(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("%w: insert user: %w", domain.ErrStorage, err)
	}
	user.ID = m.ID
	return nil
}

// List returns every user with the password hash cleared.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	db := conn(ctx, r.db)

	var models []userModel
	if err := db.Omit("password").Order("created_at").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: list users: %w", domain.ErrStorage, err)
	}

	var links []userPlaceModel
	if err := db.Order("created_at").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("%w: list owned places: %w", domain.ErrStorage, err)
	}
	owned := make(map[string][]string, len(models))
	for _, l := range links {
		owned[l.UserID] = append(owned[l.UserID], l.PlaceID)
	}

	users := make([]*domain.User, 0, len(models))
	for i := range models {
		u := models[i].toDomain(owned[models[i].ID])
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) AddPlace(ctx context.Context, userID, placeID string) error {
	db := conn(ctx, r.db)
	if err := r.ensureUser(db, userID); err != nil {
		return err
	}
	link := userPlaceModel{UserID: userID, PlaceID: placeID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		return fmt.Errorf("link owned place: %w", err)
	}
	return nil
}

func (r *UserRepository) RemovePlace(ctx context.Context, userID, placeID string) error {
	db := conn(ctx, r.db)
	if err := r.ensureUser(db, userID); err != nil {
		return err
	}
	if err := db.Where("user_id = ? AND place_id = ?", userID, placeID).Delete(&userPlaceModel{}).Error; err != nil {
		return fmt.Errorf("unlink owned place: %w", err)
	}
	return nil
}

func (r *UserRepository) ensureUser(db *gorm.DB, userID string) error {
	var count int64
	if err := db.Model(&userModel{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if count == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
