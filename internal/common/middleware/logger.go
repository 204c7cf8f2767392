package middleware

import (
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет журнал запросов сервиса service в stdout.
func Logger(service string) fiber.Handler {
	return LoggerTo(service, os.Stdout)
}

// LoggerTo - Logger с заданным потоком. Пробы /health/* не логируются.
func LoggerTo(service string, w io.Writer) fiber.Handler {
	return logger.New(logger.Config{
		Stream: w,
		Next: func(c fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/health/")
		},
		Format:        "[${time}] [" + strings.ToUpper(service) + "] ${status} - ${latency} ${method} ${path} | ${bytesSent}b | Content-Type: ${reqHeader:Content-Type}\n",
		TimeFormat:    "15:04:05",
		TimeZone:      "Local",
		DisableColors: true,
	})
}
