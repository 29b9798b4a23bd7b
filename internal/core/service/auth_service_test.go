package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/core/ports"
	"github.com/sharedplaces/places-api/internal/pkg/validate"
)

func newAuthSvc(store *memStore, files *stubFiles) *AuthService {
	return NewAuthService(
		memUserRepo{store},
		files,
		NewCredentialService("secret", time.Hour),
		validate.New(),
		bcrypt.MinCost,
		zerolog.Nop(),
	)
}

func signupInput(email string) ports.SignupInput {
	return ports.SignupInput{
		Name:     "Alice",
		Email:    email,
		Password: "pass123",
		Image:    &ports.Upload{Filename: "me.png", Data: []byte("png")},
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	store := newMemStore()
	files := &stubFiles{}
	svc := newAuthSvc(store, files)

	res, err := svc.Signup(context.Background(), signupInput("  Alice@Example.com "))
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if res.Token == "" || res.UserID == "" {
		t.Fatalf("expected token and user id, got %+v", res)
	}
	if res.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", res.Email)
	}

	user := store.users[res.UserID]
	if user.PasswordHash == "pass123" {
		t.Fatal("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Image != files.stored[0] {
		t.Errorf("expected image %q, got %q", files.stored[0], user.Image)
	}
	if len(user.Places) != 0 {
		t.Errorf("new user must own no places, got %v", user.Places)
	}

	identity, err := NewCredentialService("secret", time.Hour).VerifyToken(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if identity.UserID != res.UserID {
		t.Errorf("token user id: want %q, got %q", res.UserID, identity.UserID)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	store := newMemStore()
	store.seedUser("existing", "bob@example.com")
	files := &stubFiles{}
	svc := newAuthSvc(store, files)

	_, err := svc.Signup(context.Background(), signupInput("bob@example.com"))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Error("ErrUserExists must be a DuplicateError")
	}
	if len(store.users) != 1 {
		t.Errorf("no new user may be created, got %d users", len(store.users))
	}
	if len(files.stored) != 0 {
		t.Error("image must not be stored for a duplicate signup")
	}
}

func TestAuthService_Signup_RaceOnCreateRemovesImage(t *testing.T) {
	store := newMemStore()
	store.createUserErr = domain.ErrUserExists
	files := &stubFiles{}
	svc := newAuthSvc(store, files)

	_, err := svc.Signup(context.Background(), signupInput("carol@example.com"))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(files.deleted) != 1 || files.deleted[0] != files.stored[0] {
		t.Errorf("orphaned image must be removed, stored=%v deleted=%v", files.stored, files.deleted)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := newAuthSvc(newMemStore(), &stubFiles{})

	in := signupInput("not-an-email")
	in.Password = "123"
	if _, err := svc.Signup(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	in = signupInput("dave@example.com")
	in.Image = nil
	if _, err := svc.Signup(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing image, got %v", err)
	}
}

func TestAuthService_Signup_SigningFailure(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(memUserRepo{store}, &stubFiles{}, NewCredentialService("", time.Hour), validate.New(), bcrypt.MinCost, zerolog.Nop())

	if _, err := svc.Signup(context.Background(), signupInput("erin@example.com")); !errors.Is(err, domain.ErrSigning) {
		t.Fatalf("expected ErrSigning, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	store := newMemStore()
	svc := newAuthSvc(store, &stubFiles{})

	signed, err := svc.Signup(context.Background(), signupInput("carol@example.com"))
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "Carol@example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected token, got empty")
	}
	if res.UserID != signed.UserID || res.Email != "carol@example.com" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	store := newMemStore()
	svc := newAuthSvc(store, &stubFiles{})

	_, _ = svc.Signup(context.Background(), signupInput("dave@example.com"))
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc := newAuthSvc(newMemStore(), &stubFiles{})

	_, err := svc.Login(context.Background(), "ghost@example.com", "pass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("login must not reveal that the user does not exist")
	}
}

func TestUserService_ListUsers(t *testing.T) {
	store := newMemStore()
	store.seedUser("alice", "alice@example.com")
	store.seedUser("bob", "bob@example.com")

	users, err := NewUserService(memUserRepo{store}).ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
}
