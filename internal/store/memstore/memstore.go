// Package memstore keeps spots in process memory. It backs local development
// (STORE_DRIVER=memory) and the service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store"
)

type Store struct {
	mu    sync.RWMutex
	spots map[uuid.UUID]*models.Spot
	now   func() time.Time
}

func New() *Store {
	return &Store{
		spots: make(map[uuid.UUID]*models.Spot),
		now:   time.Now,
	}
}

// WithClock overrides the clock used to stamp inserted spots.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Insert(_ context.Context, spot *models.Spot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.spots {
		if existing.Title == spot.Title {
			return store.ErrDuplicateKey
		}
	}
	if spot.ID == uuid.Nil {
		spot.ID = uuid.New()
	}
	if _, ok := s.spots[spot.ID]; ok {
		return store.ErrDuplicateKey
	}
	spot.CreatedAt = s.now().UTC()
	spot.Version = 1
	s.spots[spot.ID] = clone(spot)
	return nil
}

func (s *Store) FindOne(_ context.Context, f store.Filter) (*models.Spot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, spot := range s.sorted() {
		if f.Matches(spot) {
			return clone(spot), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) Find(_ context.Context, f store.Filter) ([]models.Spot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Spot, 0)
	for _, spot := range s.sorted() {
		if f.Matches(spot) {
			out = append(out, *clone(spot))
		}
	}
	return out, nil
}

func (s *Store) UpdateFields(_ context.Context, id uuid.UUID, version int, patch store.Patch) (*models.Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spot, ok := s.spots[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if spot.Version != version {
		return nil, store.ErrVersionConflict
	}
	patch.Apply(spot)
	spot.Version++
	return clone(spot), nil
}

func (s *Store) Remove(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spots[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.spots, id)
	return nil
}

func (s *Store) RemoveVersion(_ context.Context, id uuid.UUID, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	spot, ok := s.spots[id]
	if !ok {
		return store.ErrNotFound
	}
	if spot.Version != version {
		return store.ErrVersionConflict
	}
	delete(s.spots, id)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Len reports the number of stored spots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spots)
}

// sorted returns spots in insertion time order; callers hold the lock.
func (s *Store) sorted() []*models.Spot {
	list := make([]*models.Spot, 0, len(s.spots))
	for _, spot := range s.spots {
		list = append(list, spot)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID.String() < list[j].ID.String()
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func clone(spot *models.Spot) *models.Spot {
	c := *spot
	c.Reviews = append([]uuid.UUID{}, spot.Reviews...)
	c.Reports = append([]models.SpotReport{}, spot.Reports...)
	return &c
}
