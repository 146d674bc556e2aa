package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/validation"
)

type SpotHandler struct {
	spots *services.SpotService
	query *services.SpotQueryService
}

func NewSpotHandler(spots *services.SpotService, query *services.SpotQueryService) *SpotHandler {
	return &SpotHandler{spots: spots, query: query}
}

func (h *SpotHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateSpotRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return respondError(c, err)
	}

	spot, err := h.spots.CreateSpot(c.UserContext(), services.CreateSpotInput{
		Title:       req.Title,
		CreatorID:   userID,
		Location:    models.Location{Latitude: *req.Latitude, Longitude: *req.Longitude},
		Floor:       req.Floor,
		TagLabel:    req.Tag,
		Description: req.Description,
		Rating:      *req.Rating,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toSpotResponse(spot))
}

func (h *SpotHandler) List(c *fiber.Ctx) error {
	spots, err := h.query.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toHydratedList(spots))
}

func (h *SpotHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid spot id")
	}
	spot, err := h.query.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toHydratedResponse(spot))
}

func (h *SpotHandler) InBounds(c *fiber.Ctx) error {
	var q dto.BoundsQuery
	var err error
	for key, dst := range map[string]**float64{
		"min_lat": &q.MinLat, "max_lat": &q.MaxLat,
		"min_lng": &q.MinLng, "max_lng": &q.MaxLng,
	} {
		if *dst, err = queryFloat(c, key); err != nil {
			return badRequest(c, key+" must be a number")
		}
	}
	if err := validation.Struct(&q); err != nil {
		return respondError(c, err)
	}

	spots, err := h.query.GetByBoundingBox(c.UserContext(), store.Bounds{
		MinLat: *q.MinLat, MaxLat: *q.MaxLat,
		MinLng: *q.MinLng, MaxLng: *q.MaxLng,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toHydratedList(spots))
}

// ByTag looks spots up by tag label. Route params arrive still escaped, so
// "Coffee%20Shop" is decoded before the lookup.
func (h *SpotHandler) ByTag(c *fiber.Ctx) error {
	label, err := url.PathUnescape(c.Params("label"))
	if err != nil {
		return badRequest(c, "Invalid tag label")
	}
	spots, err := h.query.GetByTagLabel(c.UserContext(), label)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSpotList(spots))
}

func (h *SpotHandler) ByReview(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid review id")
	}
	spot, err := h.query.GetByReviewID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.SpotLookupResponse{}
	if spot != nil {
		s := toSpotResponse(spot)
		resp.Spot = &s
	}
	return c.JSON(resp)
}

func (h *SpotHandler) ByCreator(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}
	spots, err := h.query.GetByCreator(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSpotList(spots))
}

func (h *SpotHandler) AddReview(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	spotID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid spot id")
	}

	var req dto.AddReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return respondError(c, err)
	}

	spot, review, err := h.spots.AddReview(c.UserContext(), spotID, userID, req.Description, *req.Rating)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AddReviewResponse{
		Spot:   toSpotResponse(spot),
		Review: toReviewResponse(review),
	})
}

func (h *SpotHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	spotID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid spot id")
	}

	if err := h.spots.DeleteSpot(c.UserContext(), spotID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Spot deleted"})
}

func (h *SpotHandler) Report(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	spotID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid spot id")
	}

	out, err := h.spots.ReportSpot(c.UserContext(), spotID, userID)
	if err != nil {
		return respondError(c, err)
	}

	resp := dto.ReportResponse{Removed: out.Removed}
	if out.Spot != nil {
		s := toSpotResponse(out.Spot)
		resp.Spot = &s
	}
	return c.JSON(resp)
}
