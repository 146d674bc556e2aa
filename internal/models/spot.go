package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Location struct {
	Latitude  float64 `gorm:"type:decimal(10,8);not null;index:idx_spots_lat_lng" json:"latitude"`
	Longitude float64 `gorm:"type:decimal(11,8);not null;index:idx_spots_lat_lng" json:"longitude"`
}

// SpotReport records one user's report against a spot together with the
// reputation they held when reporting.
type SpotReport struct {
	Reporter      uuid.UUID `json:"reporter"`
	ReporterScore int       `json:"reporter_score"`
}

// Spot is a point of interest. Rating is always the mean of the ratings of the
// reviews listed in Reviews; Version increases on every stored mutation.
type Spot struct {
	ID        uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string                          `gorm:"not null;size:20;uniqueIndex" json:"title"`
	CreatorID uuid.UUID                       `gorm:"type:uuid;not null;index" json:"creator_id"`
	Location  Location                        `gorm:"embedded" json:"location"`
	Floor     string                          `gorm:"size:3;not null;default:'1'" json:"floor"`
	TagID     uuid.UUID                       `gorm:"type:uuid;not null;index" json:"tag_id"`
	Reviews   datatypes.JSONSlice[uuid.UUID]  `gorm:"type:jsonb;not null" json:"reviews"`
	Rating    float64                         `gorm:"not null" json:"rating"`
	Reports   datatypes.JSONSlice[SpotReport] `gorm:"type:jsonb;not null" json:"reports"`
	Version   int                             `gorm:"not null;default:1" json:"-"`
	CreatedAt time.Time                       `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (Spot) TableName() string {
	return "spots"
}

// ReportScore is the sum of the reporter scores recorded on the spot.
func (s *Spot) ReportScore() int {
	total := 0
	for _, r := range s.Reports {
		total += r.ReporterScore
	}
	return total
}

func (s *Spot) ReportedBy(userID uuid.UUID) bool {
	for _, r := range s.Reports {
		if r.Reporter == userID {
			return true
		}
	}
	return false
}

func (s *Spot) HasReview(reviewID uuid.UUID) bool {
	for _, id := range s.Reviews {
		if id == reviewID {
			return true
		}
	}
	return false
}
