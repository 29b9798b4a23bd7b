package validate

import (
	"errors"
	"testing"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/core/ports"
)

func TestValidate_AcceptsValidPlace(t *testing.T) {
	v := New()
	in := ports.CreatePlaceInput{
		Title:       "Googleplex",
		Description: "Headquarters",
		Address:     "1600 Amphitheatre Parkway",
		Image:       &ports.Upload{Filename: "a.png", Data: []byte{1}},
	}
	if err := v.Validate(in); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	v := New()
	err := v.Validate(ports.CreatePlaceInput{Description: "abc"})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatal("expected error to match ErrValidation")
	}

	got := map[string]string{}
	for _, f := range ve.Fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"title":       "title is required",
		"description": "description must be at least 5 characters",
		"address":     "address is required",
		"image":       "image is required",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %q: want %q, got %q", field, msg, got[field])
		}
	}
}

func TestValidate_SignupEmailAndPassword(t *testing.T) {
	v := New()
	err := v.Validate(ports.SignupInput{
		Name:     "Ada",
		Email:    "not-an-email",
		Password: "123",
		Image:    &ports.Upload{Data: []byte{1}},
	})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", ve.Fields)
	}
}
