package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) Create(ctx context.Context, authorID uuid.UUID, description string, rating float64) (*models.Review, error) {
	if !models.ValidRating(rating) {
		return nil, ErrInvalidRating
	}
	review := models.Review{
		ID:          uuid.New(),
		CreatorID:   authorID,
		Description: description,
		Rating:      rating,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

func (s *ReviewService) Remove(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{}).Error
}

func (s *ReviewService) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).Preload("Creator").First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Review, error) {
	if len(ids) == 0 {
		return []models.Review{}, nil
	}
	var found []models.Review
	if err := s.db.WithContext(ctx).Preload("Creator").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	return orderReviews(ids, found), nil
}

func orderReviews(ids []uuid.UUID, found []models.Review) []models.Review {
	byID := make(map[uuid.UUID]models.Review, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	out := make([]models.Review, 0, len(found))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
