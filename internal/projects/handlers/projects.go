package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"eco-editor/internal/layout/render"
	"eco-editor/internal/projects/models"
	"eco-editor/internal/projects/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Project Handler
// ============================================================

// PublicPrefix - префикс путей, под которым шлюз публикует сервис.
const PublicPrefix = "/api/v1"

type ProjectHandler struct {
	projects *service.ProjectService
	export   *service.ExportService
	renderer *render.Renderer
}

func NewProjectHandler(projects *service.ProjectService, export *service.ExportService, renderer *render.Renderer) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		export:   export,
		renderer: renderer,
	}
}

type projectPayload struct {
	models.Project
	CategoriaNombre string `json:"categoria_nombre"`
}

func mapProject(p *models.Project) projectPayload {
	return projectPayload{Project: *p, CategoriaNombre: service.CategoryLabel(p.Categoria)}
}

// saveRequest - тело POST /projects/save. Contenido - документ макета.
type saveRequest struct {
	ID          string          `json:"id"`
	Nombre      *string         `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Categoria   string          `json:"categoria"`
	Contenido   json.RawMessage `json:"contenido"`
}

// Categories отдаёт фиксированный список категорий.
func (h *ProjectHandler) Categories(c fiber.Ctx) error {
	return c.JSON(service.Categories)
}

// List возвращает последние изменённые проекты.
func (h *ProjectHandler) List(c fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
		}
		limit = n
	}

	list, err := h.projects.Recent(c.Context(), limit)
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	out := make([]projectPayload, 0, len(list))
	for i := range list {
		out = append(out, mapProject(&list[i]))
	}
	return c.JSON(out)
}

// Stats возвращает число проектов по категориям.
func (h *ProjectHandler) Stats(c fiber.Ctx) error {
	counts, err := h.projects.CategoryCounts(c.Context())
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	return c.JSON(counts)
}

// Create создаёт проект с документом по умолчанию или из шаблона.
func (h *ProjectHandler) Create(c fiber.Ctx) error {
	var in service.CreateInput
	if err := decode(c, &in); err != nil {
		return err
	}

	p, notice, err := h.projects.Create(c.Context(), in)
	if err != nil {
		return fail(c, err, notice)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"proyecto": mapProject(p),
		"aviso":    notice,
	})
}

func (h *ProjectHandler) Get(c fiber.Ctx) error {
	p, err := h.projects.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	return c.JSON(mapProject(p))
}

// Update меняет метаданные проекта.
func (h *ProjectHandler) Update(c fiber.Ctx) error {
	var meta service.Meta
	if err := decode(c, &meta); err != nil {
		return err
	}

	id := c.Params("id")
	notice, err := h.projects.Update(c.Context(), id, meta)
	if err != nil {
		return fail(c, err, notice)
	}
	h.export.Forget(id)
	return c.JSON(fiber.Map{"id": id, "aviso": notice})
}

func (h *ProjectHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	notice, err := h.projects.Delete(c.Context(), id)
	if err != nil {
		return fail(c, err, notice)
	}
	h.export.Forget(id)
	return c.JSON(fiber.Map{"aviso": notice})
}

// Document отдаёт документ макета проекта.
func (h *ProjectHandler) Document(c fiber.Ctx) error {
	doc, err := h.projects.LoadDocument(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	return c.JSON(doc)
}

// Save проверяет и сохраняет документ. Без id создаётся новый проект.
// Без поля nombre меняется только документ.
func (h *ProjectHandler) Save(c fiber.Ctx) error {
	var req saveRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	if len(req.Contenido) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "contenido required"})
	}

	var meta *service.Meta
	if req.Nombre != nil {
		meta = &service.Meta{Nombre: *req.Nombre, Descripcion: req.Descripcion, Categoria: req.Categoria}
	}

	id, notice, err := h.projects.SaveDocument(c.Context(), req.ID, req.Contenido, meta)
	if err != nil {
		return fail(c, err, notice)
	}
	h.export.Forget(id)

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"id": id, "aviso": notice})
}

// View отдаёт страницу просмотра проекта.
// Параметр formato показывает сообщение о неподдерживаемом экспорте.
func (h *ProjectHandler) View(c fiber.Ctx) error {
	ctx := c.Context()
	p, err := h.projects.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	doc, err := h.projects.LoadDocument(ctx, p.ID)
	if err != nil {
		return fail(c, err, service.Notice{})
	}

	page := render.PageData{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Categoria:   service.CategoryLabel(p.Categoria),
		Creado:      p.FechaCreacion,
		Modificado:  p.FechaModificacion,
	}
	if notice, ok := service.UnsupportedNotice(service.ExportFormat(c.Query("formato"))); ok {
		page.NoticeKind = string(notice.Kind)
		page.NoticeText = notice.Text
	}

	markup, err := h.renderer.Page(doc, page)
	if err != nil {
		log.Printf("[PROJECTS] render page %s: %v", p.ID, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "render failed"})
	}
	return html(c, markup)
}

// Thumbnail отдаёт уменьшенную разметку документа.
func (h *ProjectHandler) Thumbnail(c fiber.Ctx) error {
	doc, err := h.projects.LoadDocument(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	return html(c, h.renderer.Thumbnail(doc, queryFloat(c, "w"), queryFloat(c, "h")))
}

// Export отдаёт PNG проекта. Для pdf и html - 303 на страницу просмотра.
func (h *ProjectHandler) Export(c fiber.Ctx) error {
	id := c.Params("id")
	format := service.ParseFormat(c.Query("formato"))

	res, err := h.export.Export(c.Context(), id, format)
	if errors.Is(err, service.ErrExportUnsupported) {
		location := PublicPrefix + "/projects/" + url.PathEscape(id) + "/view?formato=" + url.QueryEscape(string(format))
		c.Set("Location", location)
		return c.Status(http.StatusSeeOther).JSON(fiber.Map{"location": location, "aviso": res.Notice})
	}
	if err != nil {
		return fail(c, err, service.Notice{})
	}

	log.Printf("[EXPORT] Sending %s (cached: %t)", res.Filename, res.Cached)
	c.Set("Content-Type", "image/png")
	c.Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	return c.SendFile(res.Path)
}
