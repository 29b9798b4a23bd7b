package sqlstore

import (
	"time"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

type userModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userModel) TableName() string { return "users" }

type placeModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Address     string `gorm:"not null"`
	Lat         float64
	Lng         float64
	Image       string
	Creator     string `gorm:"index;size:36;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (placeModel) TableName() string { return "places" }

// userPlaceModel is one entry of a user's owned-place set.
type userPlaceModel struct {
	UserID    string `gorm:"primaryKey;size:36"`
	PlaceID   string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
}

func (userPlaceModel) TableName() string { return "user_places" }

func (m *userModel) toDomain(places []string) *domain.User {
	if places == nil {
		places = []string{}
	}
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.Password,
		Image:        m.Image,
		Places:       places,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (m *placeModel) toDomain() *domain.Place {
	return &domain.Place{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Address:     m.Address,
		Location:    domain.Location{Lat: m.Lat, Lng: m.Lng},
		Image:       m.Image,
		Creator:     m.Creator,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
