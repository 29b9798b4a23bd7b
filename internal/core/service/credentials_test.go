package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

func TestCredentialService_RoundTrip(t *testing.T) {
	svc := NewCredentialService("secret", 0)

	token, err := svc.IssueToken("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	identity, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != "u1" || identity.Email != "u1@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestCredentialService_FixedOneHourWindow(t *testing.T) {
	svc := NewCredentialService("secret", 0)
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssueToken("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims := &identityClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expected 1h validity, got %v", got)
	}

	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	if _, err := svc.VerifyToken(token); err != nil {
		t.Errorf("token must be valid before expiry: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	if _, err := svc.VerifyToken(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestCredentialService_RejectsTamperedToken(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour)
	token, _ := svc.IssueToken("u1", "u1@example.com")

	parts := strings.Split(token, ".")
	forged, _ := NewCredentialService("other-secret", time.Hour).IssueToken("admin", "admin@example.com")
	forgedParts := strings.Split(forged, ".")
	tampered := forgedParts[0] + "." + forgedParts[1] + "." + parts[2]

	if _, err := svc.VerifyToken(tampered); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.VerifyToken(forged); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("token signed with another key must be rejected, got %v", err)
	}
}

func TestCredentialService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour)

	claims := identityClaims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.VerifyToken(hs512); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("HS512 token must be rejected, got %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.VerifyToken(none); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("unsigned token must be rejected, got %v", err)
	}
}

func TestCredentialService_RejectsMalformedAndMissing(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.VerifyToken(token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("token %q: expected ErrUnauthenticated, got %v", token, err)
		}
	}
}

func TestCredentialService_RequiresUserID(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, identityClaims{
		Email: "x@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.VerifyToken(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCredentialService_MissingSigningKey(t *testing.T) {
	svc := NewCredentialService("", time.Hour)

	if _, err := svc.IssueToken("u1", "u1@example.com"); !errors.Is(err, domain.ErrSigning) {
		t.Fatalf("expected ErrSigning, got %v", err)
	}
}
