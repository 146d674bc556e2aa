package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/dto"
)

const (
	tokenKey  = "user"
	userIDKey = "user_id"
)

var ErrNoIdentity = errors.New("no authenticated user")

// JWTProtected verifies the bearer token and stores the caller's id in the
// request locals for UserID.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: tokenKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			id, err := subject(c)
			if err != nil {
				return unauthorizedJSON(c, "Unauthorized: token has no valid subject")
			}
			c.Locals(userIDKey, id)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorizedJSON(c, "Unauthorized: invalid or expired token")
		},
	})
}

// UserID returns the authenticated caller set by JWTProtected.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	if id, ok := c.Locals(userIDKey).(uuid.UUID); ok {
		return id, nil
	}
	return subject(c)
}

func subject(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, ErrNoIdentity
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, ErrNoIdentity
	}
	return uuid.Parse(sub)
}

func unauthorizedJSON(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: msg,
	})
}
