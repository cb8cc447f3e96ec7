package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"hotel-mapper/internal/common/config"
	"hotel-mapper/internal/common/middleware"
	"hotel-mapper/internal/mapper/handlers"
	"hotel-mapper/internal/mapper/repository"
	"hotel-mapper/internal/mapper/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Mapper Service
// ============================================================

func main() {
	cfg, err := config.Load("3001")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	images := service.NewImageInspector(cfg.Upload)
	storage := service.NewFileStorage(cfg.StorageRoot)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Hotel Room Mapper",
		// Запас сверх лимита изображения под поля multipart-формы.
		BodyLimit:    cfg.Upload.MaxFileSize + 1<<20,
		ErrorHandler: middleware.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Routes
	// ============================================================

	handlers.Register(app, handlers.Services{
		Repo:      repo,
		Hotels:    service.NewHotelService(repo, storage, images),
		Floors:    service.NewFloorService(repo),
		Rooms:     service.NewRoomService(repo, cfg.Mapping),
		Images:    images,
		PublicURL: cfg.PublicURL,
	})

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("[MAPPER] Starting on %s (env: %s, db: %s)", addr, cfg.Environment, cfg.DBPath)
	log.Printf("[MAPPER] Overlap tolerance %.2f, neighbor distance %.2f", cfg.Mapping.OverlapTolerance, cfg.Mapping.NeighborDistance)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
