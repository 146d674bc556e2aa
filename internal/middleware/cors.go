package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/config"
)

// CORS allows the map clients to read spots and send mutations. Only the
// verbs the spot routes use are allowed.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Authorization, Accept, " + AdminTokenHeader,
		AllowMethods:  fiber.MethodGet + "," + fiber.MethodPost + "," + fiber.MethodDelete + "," + fiber.MethodOptions,
		ExposeHeaders: fiber.HeaderXRequestID,
		MaxAge:        600,
	})
}
