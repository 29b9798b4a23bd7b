package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

func newTestGoogle(t *testing.T, body string) (*Google, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("address") == "" {
			t.Errorf("expected address query parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	g, err := NewGoogle(GoogleConfig{APIKey: "AIza-test-key", BaseURL: srv.URL}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGoogle: %v", err)
	}
	return g, &calls
}

func TestGoogle_Resolve(t *testing.T) {
	g, calls := newTestGoogle(t, `{
		"status": "OK",
		"results": [{"geometry": {"location": {"lat": 37.4224764, "lng": -122.0842499}}}]
	}`)

	loc, err := g.Resolve(context.Background(), "1600 Amphitheatre Parkway")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Lat != 37.4224764 || loc.Lng != -122.0842499 {
		t.Errorf("unexpected location: %+v", loc)
	}
	if *calls != 1 {
		t.Errorf("expected one request, got %d", *calls)
	}
}

func TestGoogle_ZeroResults(t *testing.T) {
	g, calls := newTestGoogle(t, `{"status": "ZERO_RESULTS", "results": []}`)

	_, err := g.Resolve(context.Background(), "Nowhere 0")
	if !errors.Is(err, domain.ErrGeocoding) {
		t.Fatalf("expected ErrGeocoding, got %v", err)
	}
	if *calls != 1 {
		t.Errorf("geocoding must not be retried, got %d requests", *calls)
	}
}

func TestGoogle_UpstreamFailureIsNotGeocodingError(t *testing.T) {
	for _, status := range []string{"REQUEST_DENIED", "OVER_QUERY_LIMIT", "UNKNOWN_ERROR", "INVALID_REQUEST"} {
		t.Run(status, func(t *testing.T) {
			g, _ := newTestGoogle(t, `{"status": "`+status+`", "error_message": "upstream says no", "results": []}`)

			_, err := g.Resolve(context.Background(), "Anywhere 1")
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, domain.ErrGeocoding) {
				t.Fatalf("%s must not be reported as an unresolvable address: %v", status, err)
			}
		})
	}
}

func TestGoogle_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	g, err := NewGoogle(GoogleConfig{APIKey: "AIza-test-key", BaseURL: srv.URL}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGoogle: %v", err)
	}

	_, err = g.Resolve(context.Background(), "Anywhere 1")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, domain.ErrGeocoding) {
		t.Fatalf("transport failure must not be reported as an unresolvable address: %v", err)
	}
}

func TestStatic_Resolve(t *testing.T) {
	s := NewStatic(map[string]domain.Location{
		"1600 Amphitheatre Parkway": {Lat: 37.4, Lng: -122.08},
	})

	loc, err := s.Resolve(context.Background(), "  1600   amphitheatre parkway ")
	if err != nil || loc.Lat != 37.4 {
		t.Fatalf("expected known location, got %+v, %v", loc, err)
	}

	loc, err = s.Resolve(context.Background(), "Unknown Road 5")
	if err != nil || loc != DefaultLocation {
		t.Fatalf("expected fallback location, got %+v, %v", loc, err)
	}

	if _, err := s.Resolve(context.Background(), "   "); !errors.Is(err, domain.ErrGeocoding) {
		t.Fatalf("expected ErrGeocoding for empty address, got %v", err)
	}
}
