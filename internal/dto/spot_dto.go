package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSpotRequest struct {
	Title       string   `json:"title" validate:"required"`
	Latitude    *float64 `json:"latitude" validate:"required,latitude"`
	Longitude   *float64 `json:"longitude" validate:"required,longitude"`
	Floor       string   `json:"floor"`
	Tag         string   `json:"tag" validate:"required,max=50"`
	Description string   `json:"description" validate:"max=2000"`
	Rating      *float64 `json:"rating" validate:"required,min=1,max=5"`
}

type AddReviewRequest struct {
	Description string   `json:"description" validate:"max=2000"`
	Rating      *float64 `json:"rating" validate:"required,min=1,max=5"`
}

type BoundsQuery struct {
	MinLat *float64 `query:"min_lat" json:"min_lat" validate:"required,latitude"`
	MaxLat *float64 `query:"max_lat" json:"max_lat" validate:"required,latitude"`
	MinLng *float64 `query:"min_lng" json:"min_lng" validate:"required,longitude"`
	MaxLng *float64 `query:"max_lng" json:"max_lng" validate:"required,longitude"`
}

type CreateTagRequest struct {
	Label string `json:"label" validate:"required,max=50"`
}

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type TagResponse struct {
	ID     uuid.UUID `json:"id"`
	Label  string    `json:"label"`
	Seeded bool      `json:"seeded"`
}

type ReviewResponse struct {
	ID          uuid.UUID     `json:"id"`
	Description string        `json:"description"`
	Rating      float64       `json:"rating"`
	CreatedAt   time.Time     `json:"created_at"`
	Creator     *UserResponse `json:"creator,omitempty"`
}

type SpotResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	CreatorID   uuid.UUID        `json:"creator_id"`
	Location    LocationResponse `json:"location"`
	Floor       string           `json:"floor"`
	TagID       uuid.UUID        `json:"tag_id"`
	Tag         *TagResponse     `json:"tag,omitempty"`
	ReviewIDs   []uuid.UUID      `json:"review_ids"`
	Reviews     []ReviewResponse `json:"reviews,omitempty"`
	Rating      float64          `json:"rating"`
	ReportCount int              `json:"report_count"`
	Timestamp   time.Time        `json:"timestamp"`
}

type SpotListResponse struct {
	Spots []SpotResponse `json:"spots"`
	Total int            `json:"total"`
}

type SpotLookupResponse struct {
	Spot *SpotResponse `json:"spot"`
}

type AddReviewResponse struct {
	Spot   SpotResponse   `json:"spot"`
	Review ReviewResponse `json:"review"`
}

type ReportResponse struct {
	Removed bool          `json:"removed"`
	Spot    *SpotResponse `json:"spot,omitempty"`
}
