package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"eco-editor/internal/common/config"
	"eco-editor/internal/common/middleware"
	"eco-editor/internal/exporter/handlers"
	"eco-editor/internal/exporter/raster"
	"eco-editor/internal/layout/validator"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Exporter Service
// ============================================================

func main() {
	cfg := config.Load()
	if cfg.Port == "3000" {
		cfg.Port = "3001"
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Exporter Service",
		BodyLimit:    8 * 1024 * 1024,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("exporter"))
	app.Use(middleware.Minify())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Render Routes
	// ============================================================

	v := validator.New(cfg.AllowedImageHosts, cfg.MaxTextLength)
	rasterizer := raster.New(v, &http.Client{Timeout: time.Duration(cfg.ReadTimeout) * time.Second})
	render := handlers.NewRenderHandler(v, rasterizer, cfg.ExportScale)

	app.Post("/render", render.RenderPNG)
	app.Post("/render/html", render.RenderHTML)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Exporter Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
