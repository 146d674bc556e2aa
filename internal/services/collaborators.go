package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
)

// Reviews is what the spot services need from the review collaborator.
type Reviews interface {
	Create(ctx context.Context, authorID uuid.UUID, description string, rating float64) (*models.Review, error)
	Remove(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	// GetByIDs returns the reviews that exist, in the order of ids, with
	// their creators loaded.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Review, error)
}

type Tags interface {
	GetByLabel(ctx context.Context, label string) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error)
	Create(ctx context.Context, label string, seeded bool) (*models.Tag, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	AdjustReputation(ctx context.Context, id uuid.UUID, increase bool) error
}
