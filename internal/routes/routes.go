package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/middleware"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Health *handlers.HealthHandler
	Spots  *handlers.SpotHandler
	Tags   *handlers.TagHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers, roles middleware.RoleLookup) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), h.Auth.Logout)

	jwt := middleware.JWTProtected(cfg)

	// Static segments before /:id
	spots := api.Group("/spots")
	spots.Get("/", h.Spots.List)
	spots.Get("/bounds", h.Spots.InBounds)
	spots.Get("/tag/:label", h.Spots.ByTag)
	spots.Get("/review/:id", h.Spots.ByReview)
	spots.Get("/:id", h.Spots.Get)
	spots.Post("/", jwt, h.Spots.Create)
	spots.Post("/:id/reviews", jwt, h.Spots.AddReview)
	spots.Post("/:id/reports", jwt, h.Spots.Report)
	spots.Delete("/:id", jwt, h.Spots.Delete)

	api.Get("/users/:id/spots", h.Spots.ByCreator)
	api.Get("/tags", h.Tags.List)

	admin := api.Group("/admin", jwt, middleware.AdminRequired(cfg, roles))
	admin.Post("/tags", h.Tags.Create)
}
