package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
)

const AdminTokenHeader = "X-Admin-Token"

// RoleLookup resolves a user's stored role. It lets the admin gate fall back
// to the users table when the config lists do not match.
type RoleLookup func(userID uuid.UUID) (string, error)

// AdminRequired lets a request through when the admin token header matches,
// the token's email or subject is in the configured admin lists, or the
// user's stored role is admin.
func AdminRequired(cfg *config.Config, lookup RoleLookup) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get(AdminTokenHeader) == cfg.AdminToken {
			return c.Next()
		}

		userID, err := UserID(c)
		if err != nil {
			return unauthorizedJSON(c, "Unauthorized")
		}
		if contains(adminUserIDs, userID.String()) || contains(adminEmails, tokenEmail(c)) {
			return c.Next()
		}
		if lookup != nil {
			if role, err := lookup(userID); err == nil && role == models.RoleAdmin {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Kind: string(apperr.KindForbidden), Message: "Admin access required",
		})
	}
}

func tokenEmail(c *fiber.Ctx) string {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok || token == nil {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
