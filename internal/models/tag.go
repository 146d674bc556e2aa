package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a category label attached to spots. Seeded tags ship with the
// deployment; the rest are created on demand when a spot names a new label.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Label     string    `gorm:"not null;size:50;uniqueIndex" json:"label"`
	Seeded    bool      `gorm:"not null;default:false" json:"seeded"`
	CreatedAt time.Time `json:"created_at"`
}
