// Package store defines the persistence contract for spots. Implementations
// live in the pgstore, mongostore and memstore subpackages.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
)

var (
	ErrNotFound        = errors.New("spot not found in store")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrVersionConflict = errors.New("spot was modified concurrently")
)

// SpotStore is a per-collection document store for spots. Every mutation
// touches exactly one document. Insert assigns ID, timestamp and version 1;
// UpdateFields and RemoveVersion apply only when the stored version matches.
type SpotStore interface {
	Insert(ctx context.Context, spot *models.Spot) error
	FindOne(ctx context.Context, f Filter) (*models.Spot, error)
	Find(ctx context.Context, f Filter) ([]models.Spot, error)
	UpdateFields(ctx context.Context, id uuid.UUID, version int, patch Patch) (*models.Spot, error)
	Remove(ctx context.Context, id uuid.UUID) error
	RemoveVersion(ctx context.Context, id uuid.UUID, version int) error
	Ping(ctx context.Context) error
}

// Patch lists the mutable spot fields. Nil fields are left untouched.
type Patch struct {
	Reviews *[]uuid.UUID
	Rating  *float64
	Reports *[]models.SpotReport
}

// Apply copies the patched fields onto spot.
func (p Patch) Apply(spot *models.Spot) {
	if p.Reviews != nil {
		spot.Reviews = append([]uuid.UUID{}, (*p.Reviews)...)
	}
	if p.Rating != nil {
		spot.Rating = *p.Rating
	}
	if p.Reports != nil {
		spot.Reports = append([]models.SpotReport{}, (*p.Reports)...)
	}
}
