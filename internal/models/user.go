package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a map contributor. Reputation grows with every spot they create and
// weights their reports during moderation.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email      string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Username   string         `gorm:"not null;size:50;uniqueIndex" json:"username"`
	Password   string         `gorm:"not null" json:"-"`
	Role       string         `gorm:"size:20;default:'user'" json:"role"`
	Reputation int            `gorm:"not null;default:0" json:"reputation"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
