package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"hotel-mapper/internal/mapper/export"
	"hotel-mapper/internal/mapper/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Export Handler
// ============================================================

type ExportHandler struct {
	hotels    *service.HotelService
	floors    *service.FloorService
	publicURL string
}

func NewExportHandler(hotels *service.HotelService, floors *service.FloorService, publicURL string) *ExportHandler {
	return &ExportHandler{hotels: hotels, floors: floors, publicURL: publicURL}
}

// FloorPlanPDF отдаёт PDF с планом этажа и размеченными комнатами.
func (h *ExportHandler) FloorPlanPDF(c fiber.Ctx) error {
	plan, err := h.floorPlan(c.Context(), c.Params("floorId"))
	if err != nil {
		return respondError(c, "EXPORT", err)
	}

	var buf bytes.Buffer
	if err := export.FloorPlanPDF(&buf, plan); err != nil {
		return respondError(c, "EXPORT", err)
	}
	return sendAttachment(c, "application/pdf", fmt.Sprintf("floor-%d-plan.pdf", plan.Floor.FloorNumber), buf.Bytes())
}

// LabelsPDF отдаёт лист этикеток с QR-кодами комнат этажа.
func (h *ExportHandler) LabelsPDF(c fiber.Ctx) error {
	plan, err := h.floorPlan(c.Context(), c.Params("floorId"))
	if err != nil {
		return respondError(c, "EXPORT", err)
	}
	if len(plan.Rooms) == 0 {
		return badRequest(c, "Floor has no rooms to label")
	}

	var buf bytes.Buffer
	if err := export.RoomLabelsPDF(&buf, plan, h.publicURL); err != nil {
		return respondError(c, "EXPORT", err)
	}
	return sendAttachment(c, "application/pdf", fmt.Sprintf("floor-%d-labels.pdf", plan.Floor.FloorNumber), buf.Bytes())
}

// RoomsSVG отдаёт SVG-оверлей комнат в пикселях плана.
func (h *ExportHandler) RoomsSVG(c fiber.Ctx) error {
	plan, err := h.floorPlan(c.Context(), c.Params("floorId"))
	if err != nil {
		return respondError(c, "EXPORT", err)
	}

	svg, err := export.RoomsSVG(plan)
	if err != nil {
		return respondError(c, "EXPORT", err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// RoomScheduleXLSX отдаёт книгу Excel со всеми комнатами отеля.
func (h *ExportHandler) RoomScheduleXLSX(c fiber.Ctx) error {
	detail, err := h.hotels.Detail(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "EXPORT", err)
	}

	floors := make([]export.FloorRooms, 0, len(detail.Floors))
	for _, f := range detail.Floors {
		floors = append(floors, export.FloorRooms{Floor: f.Floor, Rooms: f.Rooms})
	}

	buf, err := export.RoomScheduleXLSX(detail.Hotel, floors)
	if err != nil {
		return respondError(c, "EXPORT", err)
	}
	return sendAttachment(c,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		detail.Slug+"-rooms.xlsx", buf.Bytes())
}

func (h *ExportHandler) floorPlan(ctx context.Context, floorID string) (export.FloorPlan, error) {
	floor, err := h.floors.Detail(ctx, floorID)
	if err != nil {
		return export.FloorPlan{}, err
	}
	hotel, err := h.hotels.Get(ctx, floor.HotelID)
	if err != nil {
		return export.FloorPlan{}, err
	}
	return export.FloorPlan{Hotel: *hotel, Floor: floor.Floor, Rooms: floor.Rooms}, nil
}

func sendAttachment(c fiber.Ctx, contentType, filename string, data []byte) error {
	log.Printf("[EXPORT] %s (%d bytes)", filename, len(data))
	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
