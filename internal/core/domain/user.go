package domain

import "time"

// User models an account that can own places.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image"`
	Places       []string  `json:"places"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnsPlace reports whether placeID is in the user's owned set.
func (u *User) OwnsPlace(placeID string) bool {
	for _, id := range u.Places {
		if id == placeID {
			return true
		}
	}
	return false
}

// Identity is the verified caller extracted from an identity token. It is
// trusted as-is and never re-checked against the user store.
type Identity struct {
	UserID string
	Email  string
}

// Anonymous reports whether no verified identity is present.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}
