package handlers

import (
	"log/slog"
	"strconv"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/middleware"
)

// respondError renders err with the status of its kind. Unknown failures are
// logged and sent to Sentry; their message is forwarded as is.
func respondError(c *fiber.Ctx, err error) error {
	status := apperr.Status(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(), "path", c.Path(),
			"request_id", requestID(c), "error", err.Error())
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Kind:    string(apperr.KindOf(err)),
		Message: err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Kind: string(apperr.KindValidation), Message: msg,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := middleware.UserID(c)
	return id, err == nil
}

// queryFloat returns nil when the parameter is absent.
func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
