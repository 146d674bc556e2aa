package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
)

// Out-of-range ratings are refused before the database is touched.
func TestReviewServiceRejectsRatingOutsideRange(t *testing.T) {
	s := NewReviewService(nil)
	for _, r := range []float64{0, 5.5, math.NaN(), math.Inf(1)} {
		if _, err := s.Create(context.Background(), uuid.New(), "x", r); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %v: want=%v got=%v", r, ErrInvalidRating, err)
		}
	}
}
