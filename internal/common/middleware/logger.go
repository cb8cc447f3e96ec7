package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет одну строку на запрос: статус, время обработки, метод и путь.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | ${ip} | Content-Type: ${reqHeader:Content-Type}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
