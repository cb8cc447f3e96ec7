package handlers

import (
	"net/http"

	"hotel-mapper/internal/mapper/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Floor Handler
// ============================================================

type FloorHandler struct {
	floors *service.FloorService
}

func NewFloorHandler(floors *service.FloorService) *FloorHandler {
	return &FloorHandler{floors: floors}
}

// List отдаёт этажи отеля в порядке отображения.
func (h *FloorHandler) List(c fiber.Ctx) error {
	floors, err := h.floors.List(c.Context(), c.Params("hotelId"))
	if err != nil {
		return respondError(c, "FLOORS", err)
	}
	return c.JSON(fiber.Map{"floors": mapFloors(floors)})
}

func (h *FloorHandler) Create(c fiber.Ctx) error {
	var req createFloorRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.FloorNumber == nil {
		return badRequest(c, "floorNumber is required")
	}

	floor, err := h.floors.Create(c.Context(), c.Params("hotelId"), req.input())
	if err != nil {
		return respondError(c, "FLOORS", err)
	}
	return c.Status(http.StatusCreated).JSON(mapFloor(floor))
}

// Get отдаёт этаж вместе с комнатами.
func (h *FloorHandler) Get(c fiber.Ctx) error {
	detail, err := h.floors.Detail(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "FLOORS", err)
	}
	return c.JSON(mapFloorDetail(detail))
}

func (h *FloorHandler) Update(c fiber.Ctx) error {
	var req updateFloorRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	floor, err := h.floors.Update(c.Context(), c.Params("id"), service.UpdateFloorInput{
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
		FloorAreaSqm: req.FloorAreaSqm,
		Status:       req.Status,
		Notes:        req.Notes,
	})
	if err != nil {
		return respondError(c, "FLOORS", err)
	}
	return c.JSON(mapFloor(floor))
}

// Delete отказывает, пока на этаже есть комнаты.
func (h *FloorHandler) Delete(c fiber.Ctx) error {
	if err := h.floors.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, "FLOORS", err)
	}
	return c.JSON(fiber.Map{"message": "Floor deleted successfully"})
}
