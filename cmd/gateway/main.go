package main

import (
	"fmt"
	"log"
	"time"

	"eco-editor/internal/common/config"
	"eco-editor/internal/common/middleware"
	"eco-editor/internal/gateway/handlers"
	"eco-editor/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Eco Editor Gateway",
		BodyLimit:    8 * 1024 * 1024,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("gateway"))
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	upstreams := map[string]string{
		"projects": cfg.ProjectsURL,
		"exporter": cfg.ExporterURL,
	}

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(upstreams, 2*time.Second))
	app.Get("/health/startup", handlers.StartupProbe)

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Eco Editor API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	p := proxy.New("/api/v1", 3*time.Duration(cfg.WriteTimeout)*time.Second)

	// Exporter Service
	toExporter := p.To(cfg.ExporterURL)
	api.Post("/render", toExporter)
	api.Post("/render/html", toExporter)

	// Projects Service
	toProjects := p.To(cfg.ProjectsURL)
	api.Get("/categories", toProjects)
	api.All("/projects", toProjects)
	api.All("/projects/*", toProjects)
	api.All("/templates", toProjects)
	api.All("/templates/*", toProjects)
	api.All("/editor/*", toProjects)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying projects to %s, exporter to %s", cfg.ProjectsURL, cfg.ExporterURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
