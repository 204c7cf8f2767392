package handlers

import "github.com/gofiber/fiber/v3"

// ============================================================
// Routes
// ============================================================

// Register подключает маршруты сервиса проектов.
func Register(r fiber.Router, projects *ProjectHandler, templates *TemplateHandler, ed *EditorHandler) {
	r.Get("/categories", projects.Categories)

	r.Get("/projects", projects.List)
	r.Post("/projects", projects.Create)
	r.Get("/projects/stats/categories", projects.Stats)
	r.Post("/projects/save", projects.Save)
	r.Get("/projects/:id", projects.Get)
	r.Put("/projects/:id", projects.Update)
	r.Delete("/projects/:id", projects.Delete)
	r.Get("/projects/:id/document", projects.Document)
	r.Get("/projects/:id/view", projects.View)
	r.Get("/projects/:id/thumbnail", projects.Thumbnail)
	r.Get("/projects/:id/export", projects.Export)

	r.Get("/templates", templates.List)
	r.Post("/templates", templates.Save)
	r.Post("/templates/from-project", templates.FromProject)
	r.Get("/templates/:id", templates.Get)
	r.Get("/templates/:id/thumbnail", templates.Thumbnail)
	r.Patch("/templates/:id/active", templates.SetActive)
	r.Delete("/templates/:id", templates.Delete)

	r.Post("/editor/apply", ed.Apply)
	r.Post("/editor/sessions", ed.Open)
	r.Get("/editor/sessions/:token", ed.State)
	r.Post("/editor/sessions/:token/commands", ed.Commands)
	r.Post("/editor/sessions/:token/save", ed.Save)
	r.Delete("/editor/sessions/:token", ed.Close)
}
