package domain

import "time"

// Location represents a geographic point.
type Location struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Place is a geotagged location owned by exactly one user.
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Location    Location  `json:"location"`
	Image       string    `json:"image"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether userID is the place's creator.
func (p *Place) OwnedBy(userID string) bool {
	return userID != "" && p.Creator == userID
}
