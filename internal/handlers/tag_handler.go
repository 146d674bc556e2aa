package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/validation"
)

type TagHandler struct {
	tags *services.TagService
}

func NewTagHandler(tags *services.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

func (h *TagHandler) List(c *fiber.Ctx) error {
	tags, err := h.tags.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TagResponse, len(tags))
	for i := range tags {
		out[i] = toTagResponse(&tags[i])
	}
	return c.JSON(fiber.Map{"tags": out})
}

// Create adds a seeded tag (admin only).
func (h *TagHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return respondError(c, err)
	}

	tag, err := h.tags.Create(c.UserContext(), req.Label, true)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTagResponse(tag))
}
