package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/dto"
)

// Pinger is anything whose connectivity the health check reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db          func() error
	storeDriver string
	store       Pinger
}

func NewHealthHandler(db func() error, storeDriver string, store Pinger) *HealthHandler {
	return &HealthHandler{db: db, storeDriver: storeDriver, store: store}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.db != nil {
		if err := h.db(); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	storeStatus := "ok"
	if err := h.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy: " + err.Error()
	}

	status := "ok"
	if dbStatus != "ok" || storeStatus != "ok" {
		status = "degraded"
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Store:     h.storeDriver,
		StoreDB:   storeStatus,
	})
}
