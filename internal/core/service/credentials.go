package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// DefaultTokenTTL is the validity window of an identity token.
const DefaultTokenTTL = time.Hour

// identityClaims is the signed payload of an identity token.
type identityClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// CredentialService issues and verifies HS256 identity tokens. It keeps no
// state besides the injected signing key.
type CredentialService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCredentialService(secret string, ttl time.Duration) *CredentialService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &CredentialService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueToken signs {userId, email} with a fixed expiry.
func (s *CredentialService) IssueToken(userID, email string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: signing key unavailable", domain.ErrSigning)
	}

	now := s.now()
	claims := identityClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSigning, err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm and expiry and returns the
// embedded identity.
func (s *CredentialService) VerifyToken(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}
	if len(s.secret) == 0 {
		return domain.Identity{}, fmt.Errorf("%w: signing key unavailable", domain.ErrUnauthenticated)
	}

	claims := &identityClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		reason := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "token expired"
		}
		return domain.Identity{}, fmt.Errorf("%w: %s", domain.ErrUnauthenticated, reason)
	}
	if !parsed.Valid || claims.UserID == "" {
		return domain.Identity{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	return domain.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
