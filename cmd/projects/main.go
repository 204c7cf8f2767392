package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"eco-editor/internal/common/config"
	"eco-editor/internal/common/middleware"
	"eco-editor/internal/layout/editor"
	"eco-editor/internal/layout/render"
	"eco-editor/internal/layout/validator"
	"eco-editor/internal/projects/handlers"
	"eco-editor/internal/projects/repository"
	"eco-editor/internal/projects/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Projects Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3002"
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	timeout := time.Duration(cfg.ReadTimeout) * time.Second
	v := validator.New(cfg.AllowedImageHosts, cfg.MaxTextLength)
	renderer := render.NewRenderer(v)

	projects := service.NewProjectService(repo, v)
	templates := service.NewTemplateService(repo, v)
	export := service.NewExportService(projects,
		service.NewExporterClient(cfg.ExporterURL, 3*timeout),
		service.NewExportStorage(cfg.ExportDir),
		cfg.ExportScale)
	sessions := service.NewEditorSessions(projects, v, editor.NewHTTPProber(timeout), cfg.DenseZOrder)
	go sessions.Run(context.Background(), time.Minute)

	app := fiber.New(fiber.Config{
		ReadTimeout:  timeout,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Projects Service",
		BodyLimit:    8 * 1024 * 1024,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("projects"))
	app.Use(middleware.Minify())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := repo.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Project Routes
	// ============================================================

	handlers.Register(app,
		handlers.NewProjectHandler(projects, export, renderer),
		handlers.NewTemplateHandler(templates, renderer),
		handlers.NewEditorHandler(sessions),
	)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Projects Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
