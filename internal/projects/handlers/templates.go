package handlers

import (
	"net/http"

	"eco-editor/internal/layout/render"
	"eco-editor/internal/projects/models"
	"eco-editor/internal/projects/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Template Handler
// ============================================================

type TemplateHandler struct {
	templates *service.TemplateService
	renderer  *render.Renderer
}

func NewTemplateHandler(templates *service.TemplateService, renderer *render.Renderer) *TemplateHandler {
	return &TemplateHandler{templates: templates, renderer: renderer}
}

type templatePayload struct {
	models.Template
	CategoriaNombre string `json:"categoria_nombre"`
}

type templateRequest struct {
	ID string `json:"id"`
	service.TemplateInput
}

type fromProjectRequest struct {
	ProyectoID string `json:"proyecto_id"`
	Nombre     string `json:"nombre"`
	Categoria  string `json:"categoria"`
}

type activeRequest struct {
	Activo bool `json:"activo"`
}

// List отдаёт каталог шаблонов. todas=1 включает неактивные.
func (h *TemplateHandler) List(c fiber.Ctx) error {
	var (
		list []models.Template
		err  error
	)
	if c.Query("todas") == "1" {
		list, err = h.templates.ListAll(c.Context(), c.Query("categoria"))
	} else {
		list, err = h.templates.List(c.Context(), c.Query("categoria"))
	}
	if err != nil {
		return fail(c, err, service.Notice{})
	}

	out := make([]templatePayload, 0, len(list))
	for _, t := range list {
		out = append(out, templatePayload{Template: t, CategoriaNombre: service.CategoryLabel(t.Categoria)})
	}
	return c.JSON(out)
}

// Get отдаёт активный шаблон вместе с документом.
func (h *TemplateHandler) Get(c fiber.Ctx) error {
	ctx := c.Context()
	t, err := h.templates.Get(ctx, c.Params("id"), true)
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	doc, err := h.templates.Document(ctx, t.ID)
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	return c.JSON(fiber.Map{
		"plantilla": templatePayload{Template: *t, CategoriaNombre: service.CategoryLabel(t.Categoria)},
		"documento": doc,
	})
}

func (h *TemplateHandler) Thumbnail(c fiber.Ctx) error {
	doc, err := h.templates.Document(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	return html(c, h.renderer.Thumbnail(doc, queryFloat(c, "w"), queryFloat(c, "h")))
}

// Save создаёт шаблон (без id) или обновляет существующий.
func (h *TemplateHandler) Save(c fiber.Ctx) error {
	var req templateRequest
	if err := decode(c, &req); err != nil {
		return err
	}

	id, notice, err := h.templates.Save(c.Context(), req.ID, req.TemplateInput)
	if err != nil {
		return fail(c, err, notice)
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"id": id, "aviso": notice})
}

// FromProject сохраняет документ проекта как шаблон.
func (h *TemplateHandler) FromProject(c fiber.Ctx) error {
	var req fromProjectRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	if req.ProyectoID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "proyecto_id required"})
	}

	id, notice, err := h.templates.FromProject(c.Context(), req.ProyectoID, req.Nombre, req.Categoria)
	if err != nil {
		return fail(c, err, notice)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": id, "aviso": notice})
}

func (h *TemplateHandler) SetActive(c fiber.Ctx) error {
	var req activeRequest
	if err := decode(c, &req); err != nil {
		return err
	}

	notice, err := h.templates.ToggleActive(c.Context(), c.Params("id"), req.Activo)
	if err != nil {
		return fail(c, err, notice)
	}
	return c.JSON(fiber.Map{"aviso": notice})
}

func (h *TemplateHandler) Delete(c fiber.Ctx) error {
	notice, err := h.templates.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, notice)
	}
	return c.JSON(fiber.Map{"aviso": notice})
}
