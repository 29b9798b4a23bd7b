package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/core/ports"
	"github.com/sharedplaces/places-api/internal/pkg/metrics"
)

// DefaultBcryptCost is used when the configured cost is out of range.
const DefaultBcryptCost = 12

// AuthService implements signup and login.
type AuthService struct {
	users     ports.UserRepository
	files     ports.FileStore
	tokens    ports.TokenIssuer
	validator ports.Validator
	cost      int
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	files ports.FileStore,
	tokens ports.TokenIssuer,
	validator ports.Validator,
	bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = DefaultBcryptCost
	}
	return &AuthService{
		users:     users,
		files:     files,
		tokens:    tokens,
		validator: validator,
		cost:      bcryptCost,
		log:       log,
	}
}

// Signup registers a new account and returns a fresh identity token.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "duplicate").Inc()
		return nil, domain.ErrUserExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	imageRef, err := s.files.Store(ctx, *in.Image)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Image:        imageRef,
		Places:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.discardImage(ctx, imageRef)
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("signup", "duplicate").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("signup: create user: %w", err)
	}

	token, err := s.tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("signup", "success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user signed up")

	return &ports.AuthResult{UserID: user.ID, Email: user.Email, Token: token}, nil
}

// Login checks the credentials and returns a fresh identity token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &ports.AuthResult{UserID: user.ID, Email: user.Email, Token: token}, nil
}

func (s *AuthService) discardImage(ctx context.Context, ref string) {
	if err := s.files.Delete(ctx, ref); err != nil {
		metrics.ImageCleanupFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("image", ref).Msg("failed to remove orphaned signup image")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
