package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store/memstore"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store/mongostore"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store/pgstore"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(cfg.StoreDriver == config.DriverPostgres); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := database.SeedTags(database.DB, cfg.SeedTags); err != nil {
		slog.Error("tag seeding failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	logging.Attach(cfg.LogLevel, pgLogHandler)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)

	// Spot store
	spotStore, mongoDB, err := openSpotStore(cfg)
	if err != nil {
		slog.Error("spot store unavailable", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	slog.Info("spot store ready", "driver", cfg.StoreDriver)

	// Services
	reviewService := services.NewReviewService(database.DB)
	tagService := services.NewTagService(database.DB)
	userService := services.NewUserService(database.DB)
	authService := services.NewAuthService(database.DB, cfg)
	spotService := services.NewSpotService(spotStore, reviewService, tagService, userService, services.SpotOptions{
		DeleteWindow:  cfg.SpotDeleteWindow,
		BaseThreshold: cfg.ModerationBaseThreshold,
		UpdateRetries: cfg.SpotUpdateRetries,
	}, slog.Default())
	queryService := services.NewSpotQueryService(spotStore, reviewService, tagService, userService)

	// Handlers
	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Health: handlers.NewHealthHandler(database.Ping, cfg.StoreDriver, spotStore),
		Spots:  handlers.NewSpotHandler(spotService, queryService),
		Tags:   handlers.NewTagHandler(tagService),
	}
	roles := func(id uuid.UUID) (string, error) {
		u, err := userService.GetByID(context.Background(), id)
		if err != nil {
			return "", err
		}
		return u.Role, nil
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, h, roles)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if mongoDB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := database.DisconnectMongo(ctx, mongoDB); err != nil {
			slog.Error("mongo disconnect error", "error", err)
		}
		cancel()
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func openSpotStore(cfg *config.Config) (store.SpotStore, *mongo.Database, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		s := mongostore.New(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			// The unique title index is required for duplicate detection.
			return nil, db, err
		}
		return s, db, nil
	case config.DriverMemory:
		slog.Warn("spots are kept in memory and will not survive a restart")
		return memstore.New(), nil, nil
	default:
		return pgstore.New(database.DB), nil, nil
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	kind := string(apperr.KindUnknown)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
		kind = ""
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"kind":    kind,
		"message": message,
	})
}
