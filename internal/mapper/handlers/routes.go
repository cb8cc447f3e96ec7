package handlers

import (
	"hotel-mapper/internal/mapper/repository"
	"hotel-mapper/internal/mapper/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Routes
// ============================================================

// Services собирает зависимости обработчиков сервиса разметки.
type Services struct {
	Repo      *repository.Repository
	Hotels    *service.HotelService
	Floors    *service.FloorService
	Rooms     *service.RoomService
	Images    *service.ImageInspector
	PublicURL string
}

// Register монтирует маршруты сервиса разметки на router.
func Register(router fiber.Router, s Services) {
	health := NewHealthHandler(s.Repo)
	hotels := NewHotelHandler(s.Hotels)
	floors := NewFloorHandler(s.Floors)
	rooms := NewRoomHandler(s.Rooms)
	exports := NewExportHandler(s.Hotels, s.Floors, s.PublicURL)
	uploads := NewUploadHandler(s.Images)

	router.Get("/health/live", health.Liveness)
	router.Get("/health/ready", health.Readiness)

	router.Get("/schema", SchemaList)
	router.Get("/schema/:name", Schema)

	router.Post("/uploads/validate-image", uploads.ValidateImage)

	// Hotels
	router.Get("/hotels", hotels.List)
	router.Post("/hotels", hotels.Create)
	router.Get("/hotels/:id", hotels.Get)
	router.Put("/hotels/:id", hotels.Update)
	router.Delete("/hotels/:id", hotels.Delete)
	router.Patch("/hotels/:id/image", hotels.ReplaceImage)
	router.Get("/hotels/:id/image", hotels.Image)
	router.Get("/hotels/:id/stats", hotels.Stats)
	router.Get("/hotels/:id/rooms.xlsx", exports.RoomScheduleXLSX)

	// Floors
	router.Get("/hotels/:hotelId/floors", floors.List)
	router.Post("/hotels/:hotelId/floors", floors.Create)
	router.Get("/floors/:id", floors.Get)
	router.Put("/floors/:id", floors.Update)
	router.Delete("/floors/:id", floors.Delete)

	// Rooms on a floor
	router.Get("/floors/:floorId/rooms", rooms.List)
	router.Post("/floors/:floorId/rooms", rooms.Create)
	router.Post("/floors/:floorId/rooms/validate", rooms.Validate)
	router.Get("/floors/:floorId/rooms/at", rooms.At)
	router.Post("/floors/:floorId/rooms/import", rooms.Import)
	router.Get("/floors/:floorId/plan.pdf", exports.FloorPlanPDF)
	router.Get("/floors/:floorId/labels.pdf", exports.LabelsPDF)
	router.Get("/floors/:floorId/rooms.svg", exports.RoomsSVG)

	// Rooms
	router.Get("/rooms/:id", rooms.Get)
	router.Put("/rooms/:id", rooms.Update)
	router.Delete("/rooms/:id", rooms.Delete)
	router.Patch("/rooms/:id/coordinates", rooms.UpdateCoordinates)
	router.Get("/rooms/:id/neighbors", rooms.Neighbors)
	router.Get("/rooms/:id/history", rooms.History)
}
