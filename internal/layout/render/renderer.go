package render

import (
	"strconv"
	"strings"

	"eco-editor/internal/layout/models"

	"golang.org/x/net/html"
)

// ============================================================
// Renderer
// ============================================================

const (
	ThumbnailWidth     = 300.0
	ThumbnailHeight    = 200.0
	ThumbnailElements  = 10
	ThumbnailTextRunes = 50
	ThumbnailMinFont   = 8.0
)

// URLChecker решает, можно ли показывать изображение по адресу.
type URLChecker interface {
	ImageURL(url string) bool
}

type Renderer struct {
	images URLChecker
}

func NewRenderer(images URLChecker) *Renderer {
	return &Renderer{images: images}
}

// Thumbnail строит уменьшенную HTML-копию документа. Масштаб - targetW / ширина холста.
// Исходный документ не меняется.
func (r *Renderer) Thumbnail(doc models.Document, targetW, targetH float64) string {
	if targetW <= 0 {
		targetW = ThumbnailWidth
	}
	if targetH <= 0 {
		targetH = ThumbnailHeight
	}
	canvasW := doc.Configuracion.Ancho
	if canvasW <= 0 {
		canvasW = models.DefaultCanvasWidth
	}
	scale := targetW / canvasW

	var builder strings.Builder
	builder.WriteString(`<div class="miniatura" style="`)
	builder.WriteString(html.EscapeString("width:" + formatPx(targetW) + ";height:" + formatPx(targetH) +
		";background-color:" + background(doc) + ";position:relative;overflow:hidden;border:1px solid #ddd;border-radius:4px;"))
	builder.WriteString(`">`)

	elements := doc.Elementos
	if len(elements) > ThumbnailElements {
		elements = elements[:ThumbnailElements]
	}
	for _, el := range elements {
		style := el.Estilo.Scaled(scale, ThumbnailMinFont)
		if el.Tipo == models.TypeShape && el.Forma == models.ShapeCircle {
			style.Set("border-radius", "50%")
		}

		box := models.Box{X: el.Posicion.X * scale, Y: el.Posicion.Y * scale, W: el.Dimensiones.Ancho * scale, H: el.Dimensiones.Alto * scale}
		builder.WriteString(`<div style="`)
		builder.WriteString(html.EscapeString(boxStyle(box, el.ZIndex) + style.String()))
		builder.WriteString(`">`)

		switch el.Tipo {
		case models.TypeText:
			builder.WriteString(html.EscapeString(Truncate(strings.Join(PlainText(el.Contenido), " "), ThumbnailTextRunes)))
		case models.TypeImage:
			if src := el.ImageSource(); r.allowed(src) {
				builder.WriteString(`<img src="` + html.EscapeString(src) + `" style="max-width:100%;max-height:100%;" alt="Imagen">`)
			}
		}
		builder.WriteString(`</div>`)
	}

	builder.WriteString(`</div>`)
	return builder.String()
}

// View воспроизводит документ в натуральную величину для просмотра и печати.
func (r *Renderer) View(doc models.Document) string {
	cfg := doc.Configuracion
	if cfg.Ancho <= 0 || cfg.Alto <= 0 {
		def := models.DefaultCanvas()
		cfg.Ancho, cfg.Alto = def.Ancho, def.Alto
	}

	var builder strings.Builder
	builder.WriteString(`<div class="proyecto-container" style="`)
	builder.WriteString(html.EscapeString("position:relative;overflow:hidden;width:" + formatPx(cfg.Ancho) +
		";height:" + formatPx(cfg.Alto) + ";background-color:" + background(doc) + ";"))
	builder.WriteString(`">`)

	for _, el := range doc.Elementos {
		style := el.Estilo
		if el.Tipo == models.TypeShape && el.Forma == models.ShapeCircle {
			style = style.Clone()
			style.Set("border-radius", "50%")
		}

		builder.WriteString(`<div class="proyecto-elemento" style="`)
		builder.WriteString(html.EscapeString(boxStyle(el.Box(), el.ZIndex) + style.String()))
		builder.WriteString(`">`)

		switch el.Tipo {
		case models.TypeText:
			for i, line := range PlainText(el.Contenido) {
				if i > 0 {
					builder.WriteString("<br>")
				}
				builder.WriteString(html.EscapeString(line))
			}
		case models.TypeImage:
			if src := el.ImageSource(); r.allowed(src) {
				builder.WriteString(`<div style="`)
				builder.WriteString(html.EscapeString("width:100%;height:100%;background-image:url('" + src +
					"');background-size:contain;background-repeat:no-repeat;background-position:center;"))
				builder.WriteString(`"></div>`)
			}
		}
		builder.WriteString(`</div>`)
	}

	builder.WriteString(`</div>`)
	return builder.String()
}

func (r *Renderer) allowed(src string) bool {
	if src == "" || strings.ContainsAny(src, `'"()`) {
		return false
	}
	return r.images == nil || r.images.ImageURL(src)
}

// ============================================================
// Formatting helpers
// ============================================================

func boxStyle(b models.Box, z int) string {
	return "position:absolute;left:" + formatPx(b.X) + ";top:" + formatPx(b.Y) +
		";width:" + formatPx(b.W) + ";height:" + formatPx(b.H) + ";z-index:" + strconv.Itoa(z) + ";"
}

func background(doc models.Document) string {
	if doc.Configuracion.Fondo == "" || strings.ContainsAny(doc.Configuracion.Fondo, ";{}") {
		return models.DefaultBackground
	}
	return doc.Configuracion.Fondo
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPx(val float64) string {
	return formatFloat(val) + "px"
}
