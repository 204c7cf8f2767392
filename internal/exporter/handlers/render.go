package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"eco-editor/internal/exporter/raster"
	"eco-editor/internal/layout/render"
	"eco-editor/internal/layout/validator"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Render Handler
// ============================================================

type RenderHandler struct {
	validator    *validator.Validator
	rasterizer   *raster.Rasterizer
	renderer     *render.Renderer
	defaultScale float64
}

func NewRenderHandler(v *validator.Validator, r *raster.Rasterizer, defaultScale float64) *RenderHandler {
	return &RenderHandler{
		validator:    v,
		rasterizer:   r,
		renderer:     render.NewRenderer(v),
		defaultScale: defaultScale,
	}
}

// RenderPNG рисует документ макета в PNG.
func (h *RenderHandler) RenderPNG(c fiber.Ctx) error {
	log.Printf("[RENDER] Received request, Content-Length: %d", len(c.Body()))

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "body required"})
	}

	doc, err := h.validator.Document(c.Body())
	if err != nil {
		return invalid(c, err)
	}

	scale := h.defaultScale
	if raw := c.Query("scale"); raw != "" {
		s, err := strconv.ParseFloat(raw, 64)
		if err != nil || s <= 0 || s > raster.MaxScale {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid scale"})
		}
		scale = s
	}

	png, err := h.rasterizer.PNG(c.Context(), doc, scale)
	if err != nil {
		log.Printf("[RENDER] Render error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "render failed"})
	}

	log.Printf("[RENDER] PNG ready: %d bytes, %d elements", len(png), len(doc.Elementos))
	c.Set("Content-Type", "image/png")
	return c.Send(png)
}

// RenderHTML отдаёт статическую HTML-разметку документа.
// С параметром w отдаётся миниатюра шириной w (и высотой h).
func (h *RenderHandler) RenderHTML(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "body required"})
	}

	doc, err := h.validator.Document(c.Body())
	if err != nil {
		return invalid(c, err)
	}

	var markup string
	if raw := c.Query("w"); raw != "" {
		w, _ := strconv.ParseFloat(raw, 64)
		hgt, _ := strconv.ParseFloat(c.Query("h"), 64)
		markup = h.renderer.Thumbnail(doc, w, hgt)
	} else {
		markup = h.renderer.View(doc)
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(markup)
}

func invalid(c fiber.Ctx, err error) error {
	var elErr *validator.ElementError
	if errors.As(err, &elErr) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error":  elErr.Error(),
			"indice": elErr.Index,
		})
	}
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
