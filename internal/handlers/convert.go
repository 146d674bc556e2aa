package handlers

import (
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/services"
)

func toSpotResponse(s *models.Spot) dto.SpotResponse {
	ids := make([]uuid.UUID, len(s.Reviews))
	copy(ids, s.Reviews)
	return dto.SpotResponse{
		ID:          s.ID,
		Title:       s.Title,
		CreatorID:   s.CreatorID,
		Location:    dto.LocationResponse{Latitude: s.Location.Latitude, Longitude: s.Location.Longitude},
		Floor:       s.Floor,
		TagID:       s.TagID,
		ReviewIDs:   ids,
		Rating:      s.Rating,
		ReportCount: len(s.Reports),
		Timestamp:   s.CreatedAt,
	}
}

func toHydratedResponse(h *services.HydratedSpot) dto.SpotResponse {
	resp := toSpotResponse(&h.Spot)
	if h.Tag != nil {
		tag := toTagResponse(h.Tag)
		resp.Tag = &tag
	}
	resp.Reviews = make([]dto.ReviewResponse, len(h.Reviews))
	for i := range h.Reviews {
		resp.Reviews[i] = toReviewResponse(&h.Reviews[i])
	}
	return resp
}

func toSpotList(spots []models.Spot) dto.SpotListResponse {
	out := make([]dto.SpotResponse, len(spots))
	for i := range spots {
		out[i] = toSpotResponse(&spots[i])
	}
	return dto.SpotListResponse{Spots: out, Total: len(out)}
}

func toHydratedList(spots []services.HydratedSpot) dto.SpotListResponse {
	out := make([]dto.SpotResponse, len(spots))
	for i := range spots {
		out[i] = toHydratedResponse(&spots[i])
	}
	return dto.SpotListResponse{Spots: out, Total: len(out)}
}

func toReviewResponse(r *models.Review) dto.ReviewResponse {
	resp := dto.ReviewResponse{
		ID:          r.ID,
		Description: r.Description,
		Rating:      r.Rating,
		CreatedAt:   r.CreatedAt,
	}
	if r.Creator != nil {
		resp.Creator = &dto.UserResponse{
			ID:         r.Creator.ID,
			Username:   r.Creator.Username,
			Reputation: r.Creator.Reputation,
		}
	}
	return resp
}

func toTagResponse(t *models.Tag) dto.TagResponse {
	return dto.TagResponse{ID: t.ID, Label: t.Label, Seeded: t.Seeded}
}
