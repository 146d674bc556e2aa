package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store/memstore"
)

type fakeReviews struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]models.Review
	users     *fakeUsers
	created   int
	createErr error
	removeErr error
	removed   []uuid.UUID
}

func (f *fakeReviews) Create(_ context.Context, authorID uuid.UUID, description string, rating float64) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if !models.ValidRating(rating) {
		return nil, ErrInvalidRating
	}
	r := models.Review{ID: uuid.New(), CreatorID: authorID, Description: description, Rating: rating}
	f.byID[r.ID] = r
	f.created++
	return &r, nil
}

func (f *fakeReviews) Remove(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReviews) GetByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	return &r, nil
}

func (f *fakeReviews) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, id := range ids {
		r, ok := f.byID[id]
		if !ok {
			continue
		}
		if u := f.users.lookup(r.CreatorID); u != nil {
			r.Creator = u
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReviews) has(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byID[id]
	return ok
}

func (f *fakeReviews) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeTags struct {
	mu        sync.Mutex
	byLabel   map[string]models.Tag
	createErr error
	removed   []uuid.UUID
}

func (f *fakeTags) GetByLabel(_ context.Context, label string) (*models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byLabel[label]
	if !ok {
		return nil, ErrTagNotFound
	}
	return &t, nil
}

func (f *fakeTags) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Tag{}
	for _, id := range ids {
		for _, t := range f.byLabel {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeTags) Create(_ context.Context, label string, seeded bool) (*models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byLabel[label]; ok {
		return nil, ErrTagExists
	}
	t := models.Tag{ID: uuid.New(), Label: label, Seeded: seeded}
	f.byLabel[label] = t
	return &t, nil
}

func (f *fakeTags) Remove(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	for label, t := range f.byLabel {
		if t.ID == id {
			delete(f.byLabel, label)
		}
	}
	return nil
}

func (f *fakeTags) exists(label string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byLabel[label]
	return ok
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.User
}

func (f *fakeUsers) lookup(id uuid.UUID) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil
	}
	c := *u
	return &c
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u := f.lookup(id); u != nil {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeUsers) AdjustReputation(_ context.Context, id uuid.UUID, increase bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	if increase {
		u.Reputation++
	} else {
		u.Reputation--
	}
	return nil
}

// flakyStore injects failures in front of a memstore.
type flakyStore struct {
	store.SpotStore
	mu        sync.Mutex
	insertErr error
	conflicts int
}

func (f *flakyStore) Insert(ctx context.Context, spot *models.Spot) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.SpotStore.Insert(ctx, spot)
}

func (f *flakyStore) takeConflict() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts > 0 {
		f.conflicts--
		return true
	}
	return false
}

func (f *flakyStore) UpdateFields(ctx context.Context, id uuid.UUID, version int, patch store.Patch) (*models.Spot, error) {
	if f.takeConflict() {
		return nil, store.ErrVersionConflict
	}
	return f.SpotStore.UpdateFields(ctx, id, version, patch)
}

func (f *flakyStore) RemoveVersion(ctx context.Context, id uuid.UUID, version int) error {
	if f.takeConflict() {
		return store.ErrVersionConflict
	}
	return f.SpotStore.RemoveVersion(ctx, id, version)
}

type harness struct {
	now     time.Time
	mem     *memstore.Store
	spots   *flakyStore
	reviews *fakeReviews
	tags    *fakeTags
	users   *fakeUsers
	svc     *SpotService
	query   *SpotQueryService
}

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	h.mem = memstore.New().WithClock(func() time.Time { return h.now })
	h.spots = &flakyStore{SpotStore: h.mem}
	h.users = &fakeUsers{byID: map[uuid.UUID]*models.User{}}
	h.reviews = &fakeReviews{byID: map[uuid.UUID]models.Review{}, users: h.users}
	h.tags = &fakeTags{byLabel: map[string]models.Tag{}}
	h.svc = NewSpotService(h.spots, h.reviews, h.tags, h.users, SpotOptions{
		Clock: func() time.Time { return h.now },
	}, quietLog)
	h.query = NewSpotQueryService(h.spots, h.reviews, h.tags, h.users)
	return h
}

func (h *harness) addUser(reputation int) uuid.UUID {
	h.users.mu.Lock()
	defer h.users.mu.Unlock()
	id := uuid.New()
	h.users.byID[id] = &models.User{ID: id, Username: "u" + id.String()[:8], Reputation: reputation}
	return id
}

func (h *harness) addTag(label string) models.Tag {
	h.tags.mu.Lock()
	defer h.tags.mu.Unlock()
	t := models.Tag{ID: uuid.New(), Label: label, Seeded: true}
	h.tags.byLabel[label] = t
	return t
}

func (h *harness) reputation(id uuid.UUID) int {
	return h.users.lookup(id).Reputation
}

func (h *harness) createSpot(t *testing.T, title string, creator uuid.UUID, loc models.Location, tag string, rating float64) *models.Spot {
	t.Helper()
	spot, err := h.svc.CreateSpot(context.Background(), CreateSpotInput{
		Title:       title,
		CreatorID:   creator,
		Location:    loc,
		TagLabel:    tag,
		Description: "seed review",
		Rating:      rating,
	})
	if err != nil {
		t.Fatalf("CreateSpot(%q): %v", title, err)
	}
	return spot
}
