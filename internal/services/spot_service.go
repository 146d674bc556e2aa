package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/validation"
)

const (
	DefaultDeleteWindow  = 24 * time.Hour
	DefaultBaseThreshold = 10
	DefaultUpdateRetries = 5
)

type SpotOptions struct {
	DeleteWindow  time.Duration
	BaseThreshold int
	UpdateRetries int
	Clock         func() time.Time
}

func (o SpotOptions) withDefaults() SpotOptions {
	if o.DeleteWindow <= 0 {
		o.DeleteWindow = DefaultDeleteWindow
	}
	if o.BaseThreshold <= 0 {
		o.BaseThreshold = DefaultBaseThreshold
	}
	if o.UpdateRetries <= 0 {
		o.UpdateRetries = DefaultUpdateRetries
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

type CreateSpotInput struct {
	Title       string
	CreatorID   uuid.UUID
	Location    models.Location
	Floor       string
	TagLabel    string
	Description string
	Rating      float64
}

type ReportOutcome struct {
	Removed bool
	Spot    *models.Spot
}

// SpotService owns every spot mutation: the creation saga, review
// aggregation, creator deletion and report moderation.
type SpotService struct {
	spots   store.SpotStore
	reviews Reviews
	tags    Tags
	users   Users
	opts    SpotOptions
	log     *slog.Logger
}

func NewSpotService(spots store.SpotStore, reviews Reviews, tags Tags, users Users, opts SpotOptions, log *slog.Logger) *SpotService {
	if log == nil {
		log = slog.Default()
	}
	return &SpotService{
		spots:   spots,
		reviews: reviews,
		tags:    tags,
		users:   users,
		opts:    opts.withDefaults(),
		log:     log.With("service", "SpotService"),
	}
}

// CreateSpot creates the seed review, resolves or creates the tag, validates
// the title and floor, credits the creator and stores the spot. A failure
// after the review exists removes the review and any tag created here.
func (s *SpotService) CreateSpot(ctx context.Context, in CreateSpotInput) (*models.Spot, error) {
	var (
		review     *models.Review
		tag        *models.Tag
		createdTag bool
		spot       *models.Spot
	)
	label := strings.TrimSpace(in.TagLabel)

	err := newSaga("create_spot", s.log).run(ctx,
		sagaStep{
			Name: "create_review",
			Run: func(ctx context.Context) error {
				r, err := s.reviews.Create(ctx, in.CreatorID, in.Description, in.Rating)
				if err != nil {
					return apperr.Unknown(err)
				}
				review = r
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.reviews.Remove(ctx, review.ID)
			},
		},
		sagaStep{
			Name: "resolve_tag",
			Run: func(ctx context.Context) error {
				t, created, err := s.resolveTag(ctx, label)
				if err != nil {
					return apperr.Unknown(err)
				}
				tag, createdTag = t, created
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if !createdTag {
					return nil
				}
				return s.tags.Remove(ctx, tag.ID)
			},
		},
		sagaStep{
			Name: "validate",
			Run: func(context.Context) error {
				return validation.CheckTitleAndFloor(in.Title, in.Floor)
			},
		},
		sagaStep{
			Name: "credit_creator",
			Run: func(ctx context.Context) error {
				return apperr.Unknown(s.users.AdjustReputation(ctx, in.CreatorID, true))
			},
		},
		sagaStep{
			Name: "insert_spot",
			Run: func(ctx context.Context) error {
				candidate := &models.Spot{
					Title:     in.Title,
					CreatorID: in.CreatorID,
					Location:  in.Location,
					Floor:     validation.FloorOrDefault(in.Floor),
					TagID:     tag.ID,
					Reviews:   []uuid.UUID{review.ID},
					Rating:    review.Rating,
					Reports:   []models.SpotReport{},
				}
				err := s.spots.Insert(ctx, candidate)
				if errors.Is(err, store.ErrDuplicateKey) {
					return ErrTitleTaken
				}
				if err != nil {
					return apperr.Unknown(err)
				}
				spot = candidate
				return nil
			},
		},
	)
	if err != nil {
		return nil, err
	}

	s.log.Info("spot created", "spot_id", spot.ID.String(), "user_id", in.CreatorID.String(), "tag_created", createdTag)
	return spot, nil
}

// resolveTag looks the label up and creates it when missing. Losing a create
// race to another request counts as finding the tag.
func (s *SpotService) resolveTag(ctx context.Context, label string) (*models.Tag, bool, error) {
	tag, err := s.tags.GetByLabel(ctx, label)
	if err == nil {
		return tag, false, nil
	}
	if !errors.Is(err, ErrTagNotFound) {
		return nil, false, err
	}

	tag, err = s.tags.Create(ctx, label, false)
	if errors.Is(err, ErrTagExists) {
		tag, err = s.tags.GetByLabel(ctx, label)
		return tag, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return tag, true, nil
}

// AddReview attaches a new review to the spot and recomputes its rating. The
// spot's creator and anyone who already reviewed it are refused. If the spot
// cannot be updated the new review is removed again.
func (s *SpotService) AddReview(ctx context.Context, spotID, authorID uuid.UUID, description string, rating float64) (*models.Spot, *models.Review, error) {
	var (
		review  *models.Review
		updated *models.Spot
	)

	err := newSaga("add_review", s.log).run(ctx,
		sagaStep{
			Name: "check_author",
			Run: func(ctx context.Context) error {
				_, _, err := s.reviewableSpot(ctx, spotID, authorID)
				return err
			},
		},
		sagaStep{
			Name: "create_review",
			Run: func(ctx context.Context) error {
				r, err := s.reviews.Create(ctx, authorID, description, rating)
				if err != nil {
					return apperr.Unknown(err)
				}
				review = r
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.reviews.Remove(ctx, review.ID)
			},
		},
		sagaStep{
			Name: "update_spot",
			Run: func(ctx context.Context) error {
				spot, err := s.appendReview(ctx, spotID, review)
				if err != nil {
					return err
				}
				updated = spot
				return nil
			},
		},
	)
	if err != nil {
		return nil, nil, err
	}
	return updated, review, nil
}

// reviewableSpot loads the spot with its reviews and checks that authorID may
// still review it.
func (s *SpotService) reviewableSpot(ctx context.Context, spotID, authorID uuid.UUID) (*models.Spot, []models.Review, error) {
	spot, err := s.findSpot(ctx, spotID)
	if err != nil {
		return nil, nil, err
	}
	if spot.CreatorID == authorID {
		return nil, nil, ErrSelfReview
	}
	reviews, err := s.reviews.GetByIDs(ctx, spot.Reviews)
	if err != nil {
		return nil, nil, apperr.Unknown(err)
	}
	for _, r := range reviews {
		if r.CreatorID == authorID {
			return nil, nil, ErrDuplicateReview
		}
	}
	return spot, reviews, nil
}

func (s *SpotService) appendReview(ctx context.Context, spotID uuid.UUID, review *models.Review) (*models.Spot, error) {
	for attempt := 0; attempt < s.opts.UpdateRetries; attempt++ {
		spot, existing, err := s.reviewableSpot(ctx, spotID, review.CreatorID)
		if err != nil {
			return nil, err
		}

		ids := append(append([]uuid.UUID{}, spot.Reviews...), review.ID)
		rating := meanRating(ids, append(existing, *review))
		updated, err := s.spots.UpdateFields(ctx, spot.ID, spot.Version, store.Patch{Reviews: &ids, Rating: &rating})
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, store.ErrVersionConflict):
			metrics.RecordConflict("add_review")
			s.log.Debug("spot version conflict", "op", "AddReview", "spot_id", spotID.String(), "attempt", attempt+1)
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrSpotNotFound
		default:
			return nil, apperr.Unknown(err)
		}
	}
	return nil, ErrSpotBusy
}

// meanRating averages the ratings of ids in list order. Ids without a loaded
// review are skipped.
func meanRating(ids []uuid.UUID, reviews []models.Review) float64 {
	byID := make(map[uuid.UUID]float64, len(reviews))
	for _, r := range reviews {
		byID[r.ID] = r.Rating
	}
	var sum float64
	n := 0
	for _, id := range ids {
		if rating, ok := byID[id]; ok {
			sum += rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// DeleteSpot removes the spot if userID created it and the deletion window
// since creation has not passed. Reviews and the tag are kept.
func (s *SpotService) DeleteSpot(ctx context.Context, spotID, userID uuid.UUID) error {
	spot, err := s.findSpot(ctx, spotID)
	if err != nil {
		return err
	}
	if spot.CreatorID != userID {
		return ErrNotSpotCreator
	}
	if s.opts.Clock().Sub(spot.CreatedAt) > s.opts.DeleteWindow {
		return ErrDeletionWindowClosed
	}

	err = s.spots.Remove(ctx, spot.ID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSpotNotFound
	}
	if err != nil {
		return apperr.Unknown(err)
	}
	s.log.Info("spot deleted", "spot_id", spotID.String(), "user_id", userID.String())
	return nil
}

// ReportSpot records userID's report, weighted by their reputation. When the
// reports plus this one exceed the base threshold plus the review count, the
// spot is removed instead and no report is written.
func (s *SpotService) ReportSpot(ctx context.Context, spotID, userID uuid.UUID) (*ReportOutcome, error) {
	spot, err := s.findSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Unknown(err)
	}

	for attempt := 0; attempt < s.opts.UpdateRetries; attempt++ {
		if attempt > 0 {
			if spot, err = s.findSpot(ctx, spotID); err != nil {
				return nil, err
			}
		}
		if spot.ReportedBy(userID) {
			return nil, ErrAlreadyReported
		}

		candidate := spot.ReportScore() + user.Reputation
		threshold := s.opts.BaseThreshold + len(spot.Reviews)

		if candidate > threshold {
			err = s.spots.RemoveVersion(ctx, spot.ID, spot.Version)
			if err == nil {
				metrics.ModerationRemovals.Inc()
				s.log.Info("spot removed by moderation",
					"spot_id", spotID.String(), "user_id", userID.String(),
					"score", candidate, "threshold", threshold)
				return &ReportOutcome{Removed: true}, nil
			}
		} else {
			reports := append(append([]models.SpotReport{}, spot.Reports...),
				models.SpotReport{Reporter: userID, ReporterScore: user.Reputation})
			var updated *models.Spot
			updated, err = s.spots.UpdateFields(ctx, spot.ID, spot.Version, store.Patch{Reports: &reports})
			if err == nil {
				metrics.ReportsTotal.Inc()
				return &ReportOutcome{Spot: updated}, nil
			}
		}

		switch {
		case errors.Is(err, store.ErrVersionConflict):
			metrics.RecordConflict("report_spot")
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrSpotNotFound
		default:
			return nil, apperr.Unknown(err)
		}
	}
	return nil, ErrSpotBusy
}

func (s *SpotService) findSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	spot, err := s.spots.FindOne(ctx, store.ByID(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSpotNotFound
	}
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	return spot, nil
}
