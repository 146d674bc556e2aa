package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store"
)

// HydratedSpot is a spot with its referenced tag and reviews loaded. Tag is
// nil when the lookup does not hydrate it.
type HydratedSpot struct {
	Spot    models.Spot
	Tag     *models.Tag
	Reviews []models.Review
}

type SpotQueryService struct {
	spots   store.SpotStore
	reviews Reviews
	tags    Tags
	users   Users
}

func NewSpotQueryService(spots store.SpotStore, reviews Reviews, tags Tags, users Users) *SpotQueryService {
	return &SpotQueryService{spots: spots, reviews: reviews, tags: tags, users: users}
}

// GetByID returns the spot with its reviews and their creators.
func (q *SpotQueryService) GetByID(ctx context.Context, id uuid.UUID) (*HydratedSpot, error) {
	spot, err := q.spots.FindOne(ctx, store.ByID(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSpotNotFound
	}
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	hydrated, err := q.hydrate(ctx, []models.Spot{*spot}, false)
	if err != nil {
		return nil, err
	}
	return &hydrated[0], nil
}

func (q *SpotQueryService) GetByCreator(ctx context.Context, userID uuid.UUID) ([]models.Spot, error) {
	if _, err := q.users.GetByID(ctx, userID); err != nil {
		return nil, apperr.Unknown(err)
	}
	spots, err := q.spots.Find(ctx, store.Filter{CreatorID: userID})
	return spots, apperr.Unknown(err)
}

// GetByBoundingBox returns spots strictly inside the box; points on an edge
// are excluded.
func (q *SpotQueryService) GetByBoundingBox(ctx context.Context, b store.Bounds) ([]HydratedSpot, error) {
	spots, err := q.spots.Find(ctx, store.Filter{Bounds: &b})
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	return q.hydrate(ctx, spots, true)
}

func (q *SpotQueryService) GetByTagLabel(ctx context.Context, label string) ([]models.Spot, error) {
	tag, err := q.tags.GetByLabel(ctx, label)
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	spots, err := q.spots.Find(ctx, store.Filter{TagID: tag.ID})
	return spots, apperr.Unknown(err)
}

// GetByReviewID returns the first spot listing the review, or nil when none
// does. An unknown review is ErrReviewNotFound.
func (q *SpotQueryService) GetByReviewID(ctx context.Context, reviewID uuid.UUID) (*models.Spot, error) {
	if _, err := q.reviews.GetByID(ctx, reviewID); err != nil {
		return nil, apperr.Unknown(err)
	}
	spot, err := q.spots.FindOne(ctx, store.Filter{ReviewID: reviewID})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	return spot, nil
}

func (q *SpotQueryService) ListAll(ctx context.Context) ([]HydratedSpot, error) {
	spots, err := q.spots.Find(ctx, store.Filter{})
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	return q.hydrate(ctx, spots, true)
}

// hydrate loads the reviews (with creators) of every spot in one batch, and
// the tags too when withTag is set.
func (q *SpotQueryService) hydrate(ctx context.Context, spots []models.Spot, withTag bool) ([]HydratedSpot, error) {
	var reviewIDs, tagIDs []uuid.UUID
	for _, s := range spots {
		reviewIDs = append(reviewIDs, s.Reviews...)
		tagIDs = append(tagIDs, s.TagID)
	}

	reviews, err := q.reviews.GetByIDs(ctx, reviewIDs)
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	reviewByID := make(map[uuid.UUID]models.Review, len(reviews))
	for _, r := range reviews {
		reviewByID[r.ID] = r
	}

	tagByID := map[uuid.UUID]models.Tag{}
	if withTag {
		tags, err := q.tags.GetByIDs(ctx, uniqueIDs(tagIDs))
		if err != nil {
			return nil, apperr.Unknown(err)
		}
		for _, t := range tags {
			tagByID[t.ID] = t
		}
	}

	out := make([]HydratedSpot, len(spots))
	for i, s := range spots {
		h := HydratedSpot{Spot: s, Reviews: make([]models.Review, 0, len(s.Reviews))}
		for _, id := range s.Reviews {
			if r, ok := reviewByID[id]; ok {
				h.Reviews = append(h.Reviews, r)
			}
		}
		if t, ok := tagByID[s.TagID]; ok {
			h.Tag = &t
		}
		out[i] = h
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
