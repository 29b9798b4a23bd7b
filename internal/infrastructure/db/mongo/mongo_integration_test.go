package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// These tests need a replica-set MongoDB, e.g.
// MONGO_TEST_URI="mongodb://localhost:27017/?replicaSet=rs0".
func testDatabase(t *testing.T) (*mongo.Client, *mongo.Database) {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	name := fmt.Sprintf("places_test_%d", time.Now().UnixNano())
	client, db, err := Connect(ctx, Config{URI: uri, Database: name})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return client, db
}

func seedUser(t *testing.T, users *UserRepository, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Test", Email: email, PasswordHash: "hash", Image: "uploads/images/u.png"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	_, db := testDatabase(t)
	users := NewUserRepository(db)

	seedUser(t, users, "dup@example.com")
	err := users.Create(context.Background(), &domain.User{Name: "Other", Email: "dup@example.com"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_ListOmitsPassword(t *testing.T) {
	_, db := testDatabase(t)
	users := NewUserRepository(db)
	seedUser(t, users, "list@example.com")

	list, err := users.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].PasswordHash != "" {
		t.Fatalf("unexpected listing: %+v", list)
	}
}

func TestPlaceRepository_MalformedIDIsNotFound(t *testing.T) {
	_, db := testDatabase(t)
	places := NewPlaceRepository(db)

	if _, err := places.FindByID(context.Background(), "not-an-object-id"); !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestTransactor_AbortRollsBackBothCollections(t *testing.T) {
	client, db := testDatabase(t)
	users := NewUserRepository(db)
	places := NewPlaceRepository(db)
	tx := NewTransactor(client, zerolog.Nop())
	ctx := context.Background()

	owner := seedUser(t, users, "tx@example.com")
	place := &domain.Place{Title: "T", Description: "Described", Address: "A", Creator: owner.ID}

	errAbort := errors.New("abort")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := places.Create(ctx, place); err != nil {
			return err
		}
		if err := users.AddPlace(ctx, owner.ID, place.ID); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("expected abort error, got %v", err)
	}

	if _, err := places.FindByID(ctx, place.ID); !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Errorf("place must be rolled back, got %v", err)
	}
	reloaded, err := users.FindByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if len(reloaded.Places) != 0 {
		t.Errorf("owned set must be unchanged, got %v", reloaded.Places)
	}
}

func TestTransactor_CommitLinksPlace(t *testing.T) {
	client, db := testDatabase(t)
	users := NewUserRepository(db)
	places := NewPlaceRepository(db)
	tx := NewTransactor(client, zerolog.Nop())
	ctx := context.Background()

	owner := seedUser(t, users, "commit@example.com")
	place := &domain.Place{Title: "T", Description: "Described", Address: "A", Creator: owner.ID}

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := places.Create(ctx, place); err != nil {
			return err
		}
		return users.AddPlace(ctx, owner.ID, place.ID)
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	reloaded, _ := users.FindByID(ctx, owner.ID)
	if !reloaded.OwnsPlace(place.ID) {
		t.Fatalf("expected %v to contain %s", reloaded.Places, place.ID)
	}
	byCreator, err := places.FindByCreator(ctx, owner.ID)
	if err != nil || len(byCreator) != 1 {
		t.Fatalf("FindByCreator: %v, %d places", err, len(byCreator))
	}
}
