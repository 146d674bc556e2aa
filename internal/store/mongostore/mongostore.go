// Package mongostore keeps spots as documents in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store"
)

const Collection = "spots"

type Store struct {
	col *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{col: db.Collection(Collection)}
}

// EnsureIndexes creates the unique title index the store relies on for
// duplicate detection plus the lookup indexes used by the query filters.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "creator_id", Value: 1}}},
		{Keys: bson.D{{Key: "tag_id", Value: 1}}},
		{Keys: bson.D{{Key: "reviews", Value: 1}}},
		{Keys: bson.D{{Key: "location.latitude", Value: 1}, {Key: "location.longitude", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: 1}}},
	}
	var errs []string
	for _, m := range indexes {
		if _, err := s.col.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, spot *models.Spot) error {
	if spot.ID == uuid.Nil {
		spot.ID = uuid.New()
	}
	spot.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	spot.Version = 1

	if _, err := s.col.InsertOne(ctx, toDocument(spot)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateKey
		}
		return fmt.Errorf("insert spot: %w", err)
	}
	return nil
}

func (s *Store) FindOne(ctx context.Context, f store.Filter) (*models.Spot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	var doc spotDocument
	err := s.col.FindOne(ctx, filterDoc(f), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find spot: %w", err)
	}
	return doc.toModel()
}

func (s *Store) Find(ctx context.Context, f store.Filter) ([]models.Spot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.col.Find(ctx, filterDoc(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find spots: %w", err)
	}
	defer cur.Close(ctx)

	spots := make([]models.Spot, 0)
	for cur.Next(ctx) {
		var doc spotDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode spot: %w", err)
		}
		spot, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("decode spot %s: %w", doc.ID, err)
		}
		spots = append(spots, *spot)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate spots: %w", err)
	}
	return spots, nil
}

func (s *Store) UpdateFields(ctx context.Context, id uuid.UUID, version int, patch store.Patch) (*models.Spot, error) {
	set := bson.M{}
	if patch.Reviews != nil {
		set["reviews"] = idStrings(*patch.Reviews)
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.Reports != nil {
		set["reports"] = reportDocuments(*patch.Reports)
	}
	update := bson.M{"$inc": bson.M{"version": 1}}
	if len(set) > 0 {
		update["$set"] = set
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc spotDocument
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id.String(), "version": version}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.missOrConflict(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update spot: %w", err)
	}
	return doc.toModel()
}

func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("remove spot: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) RemoveVersion(ctx context.Context, id uuid.UUID, version int) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id.String(), "version": version})
	if err != nil {
		return fmt.Errorf("remove spot: %w", err)
	}
	if res.DeletedCount == 0 {
		return s.missOrConflict(ctx, id)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.col.Database().Client().Ping(ctx, nil)
}

func (s *Store) missOrConflict(ctx context.Context, id uuid.UUID) error {
	n, err := s.col.CountDocuments(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("check spot: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrVersionConflict
}

func filterDoc(f store.Filter) bson.M {
	filter := bson.M{}
	if f.ID != nil {
		filter["_id"] = f.ID.String()
	}
	if f.CreatorID != uuid.Nil {
		filter["creator_id"] = f.CreatorID.String()
	}
	if f.TagID != uuid.Nil {
		filter["tag_id"] = f.TagID.String()
	}
	if f.ReviewID != uuid.Nil {
		filter["reviews"] = f.ReviewID.String()
	}
	if b := f.Bounds; b != nil {
		filter["location.latitude"] = bson.M{"$gt": b.MinLat, "$lt": b.MaxLat}
		filter["location.longitude"] = bson.M{"$gt": b.MinLng, "$lt": b.MaxLng}
	}
	return filter
}
