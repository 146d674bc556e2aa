// Package pgstore stores spots as rows in PostgreSQL through gorm. Review ids
// and reports are jsonb columns so each spot stays a single document.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store"
)

type Store struct {
	db *gorm.DB
}

// New expects db to be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, spot *models.Spot) error {
	if spot.ID == uuid.Nil {
		spot.ID = uuid.New()
	}
	if spot.Reviews == nil {
		spot.Reviews = datatypes.NewJSONSlice([]uuid.UUID{})
	}
	if spot.Reports == nil {
		spot.Reports = datatypes.NewJSONSlice([]models.SpotReport{})
	}
	spot.CreatedAt = time.Now().UTC()
	spot.Version = 1

	if err := s.db.WithContext(ctx).Create(spot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrDuplicateKey
		}
		return fmt.Errorf("insert spot: %w", err)
	}
	return nil
}

func (s *Store) FindOne(ctx context.Context, f store.Filter) (*models.Spot, error) {
	var spot models.Spot
	err := s.db.WithContext(ctx).
		Scopes(matching(f)).
		Order("timestamp ASC, id ASC").
		Take(&spot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find spot: %w", err)
	}
	return &spot, nil
}

func (s *Store) Find(ctx context.Context, f store.Filter) ([]models.Spot, error) {
	spots := make([]models.Spot, 0)
	err := s.db.WithContext(ctx).
		Scopes(matching(f)).
		Order("timestamp ASC, id ASC").
		Find(&spots).Error
	if err != nil {
		return nil, fmt.Errorf("find spots: %w", err)
	}
	return spots, nil
}

func (s *Store) UpdateFields(ctx context.Context, id uuid.UUID, version int, patch store.Patch) (*models.Spot, error) {
	updates := map[string]interface{}{
		"version": gorm.Expr("version + 1"),
	}
	if patch.Reviews != nil {
		updates["reviews"] = datatypes.NewJSONSlice(*patch.Reviews)
	}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}
	if patch.Reports != nil {
		updates["reports"] = datatypes.NewJSONSlice(*patch.Reports)
	}

	var spot models.Spot
	res := s.db.WithContext(ctx).
		Model(&spot).
		Clauses(clause.Returning{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update spot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.missOrConflict(ctx, id)
	}
	return &spot, nil
}

func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Spot{})
	if res.Error != nil {
		return fmt.Errorf("remove spot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) RemoveVersion(ctx context.Context, id uuid.UUID, version int) error {
	res := s.db.WithContext(ctx).Where("id = ? AND version = ?", id, version).Delete(&models.Spot{})
	if res.Error != nil {
		return fmt.Errorf("remove spot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.missOrConflict(ctx, id)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) missOrConflict(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Spot{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check spot: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrVersionConflict
}

// matching translates a store.Filter into a gorm scope.
func matching(f store.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ID != nil {
			db = db.Where("id = ?", *f.ID)
		}
		if f.CreatorID != uuid.Nil {
			db = db.Where("creator_id = ?", f.CreatorID)
		}
		if f.TagID != uuid.Nil {
			db = db.Where("tag_id = ?", f.TagID)
		}
		if f.ReviewID != uuid.Nil {
			db = db.Where("reviews @> ?::jsonb", fmt.Sprintf(`[%q]`, f.ReviewID.String()))
		}
		if b := f.Bounds; b != nil {
			db = db.Where("latitude > ? AND latitude < ? AND longitude > ? AND longitude < ?",
				b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
		}
		return db
	}
}
