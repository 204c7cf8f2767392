package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/tdewolff/test"
)

func TestLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(LoggerTo("projects", &buf))
	app.Get("/health/ready", func(c fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/projects", func(c fiber.Ctx) error { return c.SendString("[]") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), fiber.TestConfig{Timeout: 0})
	test.Error(t, err)
	test.T(t, resp.StatusCode, http.StatusOK)
	test.T(t, buf.Len(), 0)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/projects", nil), fiber.TestConfig{Timeout: 0})
	test.Error(t, err)
	test.T(t, resp.StatusCode, http.StatusOK)
	line := buf.String()
	test.That(t, strings.Contains(line, "[PROJECTS] 200"), line)
	test.That(t, strings.Contains(line, "GET /projects"), line)
}
