package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r lies in [MinRating, MaxRating]. NaN does not.
func ValidRating(r float64) bool {
	return r >= MinRating && r <= MaxRating
}

type Review struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	Description string    `gorm:"type:text" json:"description"`
	Rating      float64   `gorm:"not null" json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	Creator     *User     `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}
