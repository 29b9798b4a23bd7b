package ports

import (
	"context"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	IssueToken(userID, email string) (string, error)
}

// TokenVerifier validates identity tokens. Any failure is
// domain.ErrUnauthenticated.
type TokenVerifier interface {
	VerifyToken(token string) (domain.Identity, error)
}

// SignupInput carries the data needed to create an account.
type SignupInput struct {
	Name     string  `validate:"required"`
	Email    string  `validate:"required,email"`
	Password string  `validate:"required,min=6"`
	Image    *Upload `validate:"required"`
}

// AuthResult is returned after a successful signup or login.
type AuthResult struct {
	UserID string
	Email  string
	Token  string
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// UserService exposes read-only user queries.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
