package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

func (s *TagService) GetByLabel(ctx context.Context, label string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Where("label = ?", strings.TrimSpace(label)).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *TagService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := s.db.WithContext(ctx).Order("label ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Create stores a new tag. A label that already exists yields ErrTagExists;
// the database needs TranslateError enabled for that to be detected.
func (s *TagService) Create(ctx context.Context, label string, seeded bool) (*models.Tag, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrInvalidTagLabel
	}
	tag := models.Tag{ID: uuid.New(), Label: label, Seeded: seeded}
	err := s.db.WithContext(ctx).Create(&tag).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrTagExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &tag, nil
}

func (s *TagService) Remove(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Tag{}).Error
}
