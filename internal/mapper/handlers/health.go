package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Pinger проверяет зависимость, без которой сервис не готов.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness проверяет, что приложение работает
func (h *HealthHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Readiness проверяет подключение к базе
func (h *HealthHandler) Readiness(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Printf("[HEALTH] database ping failed: %v", err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"error":  "database unavailable",
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
