package handlers

import (
	"errors"
	"log"
	"net/http"

	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/importer"
	"hotel-mapper/internal/mapper/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Room Handler
// ============================================================

type RoomHandler struct {
	rooms *service.RoomService
}

func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List отдаёт комнаты этажа по номерам.
func (h *RoomHandler) List(c fiber.Ctx) error {
	rooms, err := h.rooms.List(c.Context(), c.Params("floorId"))
	if err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.JSON(fiber.Map{"rooms": mapRooms(rooms)})
}

// Create размещает комнату: валидация координат, затем проверка пересечений.
func (h *RoomHandler) Create(c fiber.Ctx) error {
	var req createRoomRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.Coordinates == nil {
		return badRequest(c, "coordinates are required")
	}

	room, err := h.rooms.Create(c.Context(), c.Params("floorId"), req.input())
	if err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.Status(http.StatusCreated).JSON(mapRoom(room))
}

func (h *RoomHandler) Get(c fiber.Ctx) error {
	room, err := h.rooms.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.JSON(mapRoom(room))
}

// Update меняет описательные поля комнаты; координаты здесь не принимаются.
func (h *RoomHandler) Update(c fiber.Ctx) error {
	var req updateRoomRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	room, err := h.rooms.Update(c.Context(), c.Params("id"), service.UpdateRoomInput{
		RoomNumber: req.RoomNumber,
		RoomType:   req.RoomType,
		BedType:    req.BedType,
		Capacity:   req.Capacity,
		Status:     req.Status,
		BasePrice:  req.BasePrice,
		Currency:   req.Currency,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.JSON(mapRoom(room))
}

func (h *RoomHandler) Delete(c fiber.Ctx) error {
	if err := h.rooms.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.JSON(fiber.Map{"message": "Room deleted successfully"})
}

// UpdateCoordinates перемещает или растягивает комнату.
func (h *RoomHandler) UpdateCoordinates(c fiber.Ctx) error {
	var req updateCoordinatesRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.Coordinates == nil {
		return badRequest(c, "coordinates are required")
	}

	room, err := h.rooms.UpdateCoordinates(c.Context(), c.Params("id"), *req.Coordinates, req.ChangeReason)
	if err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.JSON(mapRoom(room))
}

// Neighbors ищет соседей; maxDistance необязателен.
func (h *RoomHandler) Neighbors(c fiber.Ctx) error {
	maxDistance, _, err := queryFloat(c, "maxDistance")
	if err != nil {
		return badRequest(c, err.Error())
	}

	rooms, err := h.rooms.Neighbors(c.Context(), c.Params("id"), maxDistance)
	if err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.JSON(fiber.Map{"roomId": c.Params("id"), "neighbors": mapRooms(rooms)})
}

func (h *RoomHandler) History(c fiber.Ctx) error {
	changes, err := h.rooms.History(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.JSON(fiber.Map{"history": changes})
}

// At отдаёт комнату под нормализованной точкой ?x=&y=.
func (h *RoomHandler) At(c fiber.Ctx) error {
	x, okX, errX := queryFloat(c, "x")
	y, okY, errY := queryFloat(c, "y")
	if errX != nil || errY != nil || !okX || !okY {
		return badRequest(c, "x and y query parameters are required numbers")
	}

	room, err := h.rooms.RoomAt(c.Context(), c.Params("floorId"), geometry.Point{X: x, Y: y})
	if err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.JSON(mapRoom(room))
}

// Validate выносит вердикт по кандидату без сохранения.
func (h *RoomHandler) Validate(c fiber.Ctx) error {
	var req validatePlacementRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	verdict, err := h.rooms.ValidatePlacement(c.Context(), c.Params("floorId"), req.input())
	if err != nil {
		return respondError(c, "ROOMS", err)
	}
	return c.JSON(verdict)
}

// Import принимает файл (.svg, .xlsx, .csv, .dxf) в поле file.
// С dryRun=true только возвращает отчёт.
func (h *RoomHandler) Import(c fiber.Ctx) error {
	floorID := c.Params("floorId")
	data, filename, err := readUpload(c, "file")
	if err != nil {
		return badRequest(c, err.Error())
	}

	// Пиксельные таблицы пересчитываются по плану; без плана годятся только нормализованные.
	img, err := h.rooms.FloorImageSize(c.Context(), floorID)
	if err != nil && !isMissingImage(err) {
		return respondError(c, "IMPORT", err)
	}

	parsed := importer.Parse(filename, data, img)
	if len(parsed.Errors) > 0 && len(parsed.Candidates) == 0 {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":    "No rooms could be read from the file",
			"format":   parsed.Format,
			"errors":   parsed.Errors,
			"warnings": parsed.Warnings,
		})
	}

	dryRun := queryBool(c, "dryRun") || c.FormValue("dryRun") == "true"
	report, err := h.rooms.ImportRooms(c.Context(), floorID, parsed.Candidates, dryRun)
	if err != nil {
		return respondError(c, "IMPORT", err)
	}

	log.Printf("[IMPORT] %s into floor %s: %d accepted, %d rejected (dryRun=%t)",
		filename, floorID, report.Accepted, report.Rejected, dryRun)

	return c.JSON(fiber.Map{
		"format":   parsed.Format,
		"errors":   parsed.Errors,
		"warnings": parsed.Warnings,
		"report":   report,
	})
}

// isMissingImage узнаёт отель без размеров плана; прочие ошибки уходят в respondError.
func isMissingImage(err error) bool {
	return errors.Is(err, geometry.ErrInvalidImageSize)
}
