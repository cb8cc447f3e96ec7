package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/repository"
	"hotel-mapper/internal/mapper/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Error Mapping
// ============================================================

// respondError переводит ошибки сервиса в HTTP-ответ. Неизвестные ошибки
// логируются и отдаются как 500 без подробностей.
func respondError(c fiber.Ctx, tag string, err error) error {
	var validation *geometry.ValidationError
	var overlap *service.OverlapError
	var missing *service.NotFoundError

	switch {
	case errors.As(err, &validation):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"code":    "VALIDATION_ERROR",
			"details": validation.Errors,
		})
	case errors.As(err, &overlap):
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"error":            overlap.Error(),
			"code":             "OVERLAP_ERROR",
			"overlappingRooms": overlap.Rooms,
		})
	case errors.As(err, &missing):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": missing.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, service.ErrConflict):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": reason(err, service.ErrConflict)})
	case errors.Is(err, repository.ErrDuplicate):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "already exists"})
	case errors.Is(err, service.ErrInvalid):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": reason(err, service.ErrInvalid)})
	}

	log.Printf("[%s] %s %s: %v", tag, c.Method(), c.Path(), err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// reason отрезает от сообщения префикс sentinel-ошибки.
func reason(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ============================================================
// Request Helpers
// ============================================================

// decodeBody разбирает JSON-тело запроса; пустое тело считается ошибкой.
func decodeBody(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return errors.New("empty body")
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

// readUpload читает файл из multipart-поля целиком.
func readUpload(c fiber.Ctx, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", errors.New(field + " file required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Filename, nil
}

// queryFloat читает необязательный числовой параметр запроса.
func queryFloat(c fiber.Ctx, key string) (float64, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, errors.New(key + " must be a number")
	}
	return v, true, nil
}

func queryInt(c fiber.Ctx, key string) int {
	v, _ := strconv.Atoi(c.Query(key))
	return v
}

func queryBool(c fiber.Ctx, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}
