package main

import (
	"fmt"
	"log"
	"time"

	"hotel-mapper/internal/common/config"
	"hotel-mapper/internal/common/middleware"
	"hotel-mapper/internal/gateway/handlers"
	"hotel-mapper/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load("3000")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
		BodyLimit:    cfg.Upload.MaxFileSize + 1<<20,
		ErrorHandler: middleware.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	mapper := proxy.New(cfg.MapperURL, time.Duration(cfg.WriteTimeout)*time.Second)

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(mapper))
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Hotel Room Mapper API v1",
			"status":  "ok",
		})
	})

	// Mapper Service
	api.All("/*", mapper.Handler("/api/v1"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /api/v1/* to %s", cfg.MapperURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
