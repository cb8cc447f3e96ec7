package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Error Handler
// ============================================================

// ErrorHandler отдаёт ошибки в едином JSON-формате {"error": "..."}.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	msg := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{"error": msg})
}
