package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository on the users collection.
// The owned-place set is stored as an array of place ids on the user document.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Email     string               `bson:"email"`
	Password  string               `bson:"password,omitempty"`
	Image     string               `bson:"image"`
	Places    []primitive.ObjectID `bson:"places"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func (d *userDocument) toDomain() *domain.User {
	places := make([]string, 0, len(d.Places))
	for _, p := range d.Places {
		places = append(places, p.Hex())
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Image:        d.Image,
		Places:       places,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %w", domain.ErrStorage, err)
	}
	return doc.toDomain(), nil
}

// Create inserts the user and sets user.ID. A duplicate email, caught by the
// unique index, yields domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Image:     user.Image,
		Places:    []primitive.ObjectID{},
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("%w: insert user: %w", domain.ErrStorage, err)
	}

	user.ID = doc.ID.Hex()
	return nil
}

// List returns every user without the password hash.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %w", domain.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode users: %w", domain.ErrStorage, err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

// AddPlace adds placeID to the user's owned set. Must run inside the
// transaction that inserts the place.
func (r *UserRepository) AddPlace(ctx context.Context, userID, placeID string) error {
	return r.updatePlaces(ctx, userID, placeID, "$addToSet")
}

// RemovePlace removes placeID from the user's owned set.
func (r *UserRepository) RemovePlace(ctx context.Context, userID, placeID string) error {
	return r.updatePlaces(ctx, userID, placeID, "$pull")
}

func (r *UserRepository) updatePlaces(ctx context.Context, userID, placeID, operator string) error {
	uid, ok := parseID(userID)
	if !ok {
		return domain.ErrUserNotFound
	}
	pid, ok := parseID(placeID)
	if !ok {
		return domain.ErrPlaceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		operator: bson.M{"places": pid},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": uid}, update)
	if err != nil {
		return fmt.Errorf("update owned places: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
