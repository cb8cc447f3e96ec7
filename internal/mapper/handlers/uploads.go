package handlers

import (
	"hotel-mapper/internal/mapper/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Upload Handler
// ============================================================

type UploadHandler struct {
	images *service.ImageInspector
}

func NewUploadHandler(images *service.ImageInspector) *UploadHandler {
	return &UploadHandler{images: images}
}

// ValidateImage проверяет план до создания отеля: тип, размер, пиксели.
func (h *UploadHandler) ValidateImage(c fiber.Ctx) error {
	data, _, err := readUpload(c, "image")
	if err != nil {
		return badRequest(c, "Image file is required")
	}

	info, err := h.images.Inspect(data)
	if err != nil {
		return respondError(c, "UPLOADS", err)
	}
	return c.JSON(fiber.Map{"valid": true, "image": info})
}
