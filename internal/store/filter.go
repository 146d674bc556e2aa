package store

import (
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
)

// Bounds is an open latitude/longitude rectangle: points on an edge are outside.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func (b Bounds) Contains(loc models.Location) bool {
	return loc.Latitude > b.MinLat && loc.Latitude < b.MaxLat &&
		loc.Longitude > b.MinLng && loc.Longitude < b.MaxLng
}

// Filter is a conjunction of predicates over spot documents. Zero-valued
// fields do not constrain the result; the zero Filter matches every spot.
// A set ID always constrains, uuid.Nil included.
type Filter struct {
	ID        *uuid.UUID
	CreatorID uuid.UUID
	TagID     uuid.UUID
	ReviewID  uuid.UUID
	Bounds    *Bounds
}

func ByID(id uuid.UUID) Filter { return Filter{ID: &id} }

// Matches evaluates the filter in process. Backends with a query language
// translate the same predicates instead.
func (f Filter) Matches(s *models.Spot) bool {
	if f.ID != nil && s.ID != *f.ID {
		return false
	}
	if f.CreatorID != uuid.Nil && s.CreatorID != f.CreatorID {
		return false
	}
	if f.TagID != uuid.Nil && s.TagID != f.TagID {
		return false
	}
	if f.ReviewID != uuid.Nil && !s.HasReview(f.ReviewID) {
		return false
	}
	if f.Bounds != nil && !f.Bounds.Contains(s.Location) {
		return false
	}
	return true
}
