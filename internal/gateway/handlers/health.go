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

// Upstream отвечает на readiness-проверку шлюза.
type Upstream interface {
	Ping(ctx context.Context) error
}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет, что сервис разметки отвечает
func ReadinessProbe(upstream Upstream) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		if err := upstream.Ping(ctx); err != nil {
			log.Printf("[HEALTH] upstream not ready: %v", err)
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"error":  "mapper service unavailable",
			})
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
