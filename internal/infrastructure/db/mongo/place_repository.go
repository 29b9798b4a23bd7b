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

// PlaceRepository implements ports.PlaceRepository on the places collection.
type PlaceRepository struct {
	col *mongo.Collection
}

func NewPlaceRepository(db *mongo.Database) *PlaceRepository {
	return &PlaceRepository{col: db.Collection(collectionPlaces)}
}

type placeDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Address     string             `bson:"address"`
	Location    domain.Location    `bson:"location"`
	Image       string             `bson:"image"`
	Creator     primitive.ObjectID `bson:"creator"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *placeDocument) toDomain() *domain.Place {
	return &domain.Place{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Address:     d.Address,
		Location:    d.Location,
		Image:       d.Image,
		Creator:     d.Creator.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *PlaceRepository) FindByID(ctx context.Context, id string) (*domain.Place, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrPlaceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc placeDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("%w: find place: %w", domain.ErrStorage, err)
	}
	return doc.toDomain(), nil
}

// FindByCreator returns the places whose creator is userID, oldest first.
// A malformed userID matches nothing.
func (r *PlaceRepository) FindByCreator(ctx context.Context, userID string) ([]*domain.Place, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"creator": uid}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: list places: %w", domain.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var docs []placeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode places: %w", domain.ErrStorage, err)
	}

	places := make([]*domain.Place, 0, len(docs))
	for i := range docs {
		places = append(places, docs[i].toDomain())
	}
	return places, nil
}

// Create inserts the place and sets place.ID.
func (r *PlaceRepository) Create(ctx context.Context, place *domain.Place) error {
	creator, ok := parseID(place.Creator)
	if !ok {
		return domain.ErrCreatorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := placeDocument{
		ID:          primitive.NewObjectID(),
		Title:       place.Title,
		Description: place.Description,
		Address:     place.Address,
		Location:    place.Location,
		Image:       place.Image,
		Creator:     creator,
		CreatedAt:   place.CreatedAt,
		UpdatedAt:   place.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert place: %w", err)
	}

	place.ID = doc.ID.Hex()
	return nil
}

// Update persists the mutable fields of place.
func (r *PlaceRepository) Update(ctx context.Context, place *domain.Place) error {
	oid, ok := parseID(place.ID)
	if !ok {
		return domain.ErrPlaceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       place.Title,
		"description": place.Description,
		"updated_at":  place.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("%w: update place: %w", domain.ErrStorage, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlaceNotFound
	}
	return nil
}

func (r *PlaceRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrPlaceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPlaceNotFound
	}
	return nil
}
