package handlers

import (
	"log"
	"net/http"

	"hotel-mapper/internal/mapper/models"
	"hotel-mapper/internal/mapper/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Hotel Handler
// ============================================================

type HotelHandler struct {
	hotels *service.HotelService
}

func NewHotelHandler(hotels *service.HotelService) *HotelHandler {
	return &HotelHandler{hotels: hotels}
}

// List отдаёт страницу отелей с фильтром по статусу и поиском по имени.
func (h *HotelHandler) List(c fiber.Ctx) error {
	filter := models.HotelFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}.Normalized()

	hotels, total, err := h.hotels.List(c.Context(), filter)
	if err != nil {
		return respondError(c, "HOTELS", err)
	}

	return c.JSON(fiber.Map{
		"hotels":     mapHotels(hotels),
		"pagination": mapPagination(filter, total),
	})
}

// Create принимает multipart: name, description и изображение плана в поле image.
func (h *HotelHandler) Create(c fiber.Ctx) error {
	log.Printf("[HOTELS] Create request")

	data, _, err := readUpload(c, "image")
	if err != nil {
		return badRequest(c, "Floor plan image is required")
	}

	hotel, err := h.hotels.Create(c.Context(), service.CreateHotelInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Image:       data,
	})
	if err != nil {
		return respondError(c, "HOTELS", err)
	}

	return c.Status(http.StatusCreated).JSON(mapHotel(hotel))
}

// Get отдаёт отель со всеми этажами и комнатами.
func (h *HotelHandler) Get(c fiber.Ctx) error {
	detail, err := h.hotels.Detail(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "HOTELS", err)
	}
	return c.JSON(mapHotelDetail(detail))
}

func (h *HotelHandler) Update(c fiber.Ctx) error {
	var req updateHotelRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	hotel, err := h.hotels.Update(c.Context(), c.Params("id"), service.UpdateHotelInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return respondError(c, "HOTELS", err)
	}
	return c.JSON(mapHotel(hotel))
}

func (h *HotelHandler) Delete(c fiber.Ctx) error {
	if err := h.hotels.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, "HOTELS", err)
	}
	return c.JSON(fiber.Map{"message": "Hotel deleted successfully"})
}

// ReplaceImage меняет изображение плана; координаты комнат остаются прежними.
func (h *HotelHandler) ReplaceImage(c fiber.Ctx) error {
	data, _, err := readUpload(c, "image")
	if err != nil {
		return badRequest(c, "Floor plan image is required")
	}

	hotel, err := h.hotels.ReplaceImage(c.Context(), c.Params("id"), data)
	if err != nil {
		return respondError(c, "HOTELS", err)
	}
	return c.JSON(mapHotel(hotel))
}

// Image отдаёт сохранённый файл плана.
func (h *HotelHandler) Image(c fiber.Ctx) error {
	hotel, err := h.hotels.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "HOTELS", err)
	}

	c.Set("Content-Type", hotel.ImageType)
	if err := c.SendFile(hotel.ImagePath); err != nil {
		log.Printf("[HOTELS] send image error: %v", err)
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}
	return nil
}

func (h *HotelHandler) Stats(c fiber.Ctx) error {
	stats, err := h.hotels.Stats(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "HOTELS", err)
	}
	return c.JSON(stats)
}
