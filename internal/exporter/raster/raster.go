package raster

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"eco-editor/internal/layout/models"
	"eco-editor/internal/layout/render"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
)

// ============================================================
// Rasterizer
// ============================================================

const (
	DefaultScale = 2.0
	MaxScale     = 4.0
)

// Rasterizer рисует документ в PNG. Единица холста - один CSS-пиксель,
// scale - число пикселей PNG на единицу.
type Rasterizer struct {
	images render.URLChecker
	client *http.Client
}

func New(images render.URLChecker, client *http.Client) *Rasterizer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Rasterizer{images: images, client: client}
}

// PNG рисует холст и элементы по возрастанию zIndex.
// Изображения, которые не удалось загрузить, пропускаются.
func (r *Rasterizer) PNG(ctx context.Context, doc models.Document, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = DefaultScale
	}
	if scale > MaxScale {
		scale = MaxScale
	}

	cfg := doc.Configuracion
	def := models.DefaultCanvas()
	if cfg.Ancho <= 0 {
		cfg.Ancho = def.Ancho
	}
	if cfg.Alto <= 0 {
		cfg.Alto = def.Alto
	}

	fonts, err := family()
	if err != nil {
		return nil, err
	}

	c := canvas.New(cfg.Ancho, cfg.Alto)
	p := &painter{
		ctx:    canvas.NewContext(c),
		height: cfg.Alto,
		scale:  scale,
		fonts:  fonts,
	}

	p.ctx.SetFillColor(parseColor(cfg.Fondo, parseColor(models.DefaultBackground, canvas.White)))
	p.ctx.SetStrokeColor(canvas.Transparent)
	p.ctx.DrawPath(0, 0, canvas.Rectangle(cfg.Ancho, cfg.Alto))

	for _, i := range doc.PaintOrder() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		el := doc.Elementos[i]
		switch el.Tipo {
		case models.TypeShape:
			p.shape(el)
		case models.TypeText:
			p.text(el)
		case models.TypeImage:
			r.image(ctx, p, el)
		}
	}

	var buf bytes.Buffer
	if err := renderers.PNG(canvas.DPMM(scale))(&buf, c); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Rasterizer) image(ctx context.Context, p *painter, el models.Element) {
	src := el.ImageSource()
	if src == "" || (r.images != nil && !r.images.ImageURL(src)) {
		log.Printf("[RASTER] Image skipped: %q", src)
		return
	}
	img, err := r.fetchImage(ctx, src)
	if err != nil {
		log.Printf("[RASTER] Image %q failed: %v", src, err)
		return
	}

	b := el.Box()
	bounds := img.Bounds()
	dx, dy, w, h := containBox(float64(bounds.Dx()), float64(bounds.Dy()), b.W, b.H)
	if w <= 0 || h <= 0 {
		return
	}
	scaled := scaleImage(img, int(math.Round(w*p.scale)), int(math.Round(h*p.scale)))
	res := float64(scaled.Bounds().Dx()) / w
	p.ctx.DrawImage(b.X+dx, p.flip(b.Y+dy+h), scaled, canvas.DPMM(res))
}

// ============================================================
// Painter
// ============================================================

type painter struct {
	ctx    *canvas.Context
	height float64
	scale  float64
	fonts  *canvas.FontFamily
}

// flip переводит координату y из системы "сверху вниз" в систему холста.
func (p *painter) flip(y float64) float64 {
	return p.height - y
}

func opacity(s models.Style) float64 {
	if s.Opacity == nil {
		return 1
	}
	return math.Max(0, math.Min(1, *s.Opacity))
}

// outline задаёт обводку по border-* и возвращает её толщину.
func (p *painter) outline(s models.Style, alpha float64) float64 {
	width := 0.0
	if s.BorderWidth != nil {
		width = *s.BorderWidth
	}
	if width <= 0 || s.BorderStyle == "none" || s.BorderStyle == "hidden" {
		p.ctx.SetStrokeColor(canvas.Transparent)
		return 0
	}
	p.ctx.SetStrokeColor(withOpacity(parseColor(s.BorderColor, canvas.Black), alpha))
	p.ctx.SetStrokeWidth(width)
	return width
}

// radius разбирает border-radius в пикселях или процентах от меньшей стороны.
func radius(v string, w, h float64) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if pct, ok := strings.CutSuffix(v, "%"); ok {
		var f float64
		if _, err := fmt.Sscanf(pct, "%g", &f); err != nil {
			return 0
		}
		return math.Min(w, h) * f / 100
	}
	if px, ok := models.ParsePx(v); ok {
		return px
	}
	return 0
}

func (p *painter) box(el models.Element, fill color.Color, rounded bool) {
	b := el.Box()
	if b.W <= 0 || b.H <= 0 {
		return
	}
	alpha := opacity(el.Estilo)
	p.ctx.SetFillColor(withOpacity(fill, alpha))
	p.outline(el.Estilo, alpha)

	if rounded {
		p.ctx.DrawPath(b.X+b.W/2, p.flip(b.Y+b.H/2), canvas.Ellipse(b.W/2, b.H/2))
		return
	}
	if r := math.Min(radius(el.Estilo.BorderRadius, b.W, b.H), math.Min(b.W, b.H)/2); r > 0 {
		p.ctx.DrawPath(b.X, p.flip(b.Bottom()), canvas.RoundedRectangle(b.W, b.H, r))
		return
	}
	p.ctx.DrawPath(b.X, p.flip(b.Bottom()), canvas.Rectangle(b.W, b.H))
}

func (p *painter) shape(el models.Element) {
	fill := parseColor(el.Estilo.BackgroundColor, canvas.Transparent)
	p.box(el, fill, el.Forma == models.ShapeCircle)
}

// text рисует фон и строки текста с переносом по ширине рамки.
// Строки, не помещающиеся по высоте, отбрасываются.
func (p *painter) text(el models.Element) {
	s := el.Estilo
	if s.BackgroundColor != "" || s.BorderWidth != nil {
		p.box(el, parseColor(s.BackgroundColor, canvas.Transparent), false)
		p.ctx.SetStrokeColor(canvas.Transparent)
	}

	size := DefaultFontSize
	if s.FontSize != nil && *s.FontSize > 0 {
		size = *s.FontSize
	}
	col := withOpacity(parseColor(s.Color, canvas.Black), opacity(s))
	f := face(p.fonts, size, col, fontStyle(s.FontWeight, s.FontStyle), s.TextDecoration)

	b := el.Box()
	lineHeight := size * LineHeight
	ascent := f.Metrics().Ascent
	y := b.Y
	for _, line := range wrapLines(f, render.PlainText(el.Contenido), b.W) {
		if y+lineHeight > b.Bottom()+0.5 {
			break
		}
		x := b.X
		switch s.TextAlign {
		case "center":
			x += (b.W - f.TextWidth(line)) / 2
		case "right", "end":
			x += b.W - f.TextWidth(line)
		}
		baseline := y + (lineHeight-size)/2 + ascent
		p.ctx.DrawText(x, p.flip(baseline), canvas.NewTextLine(f, line, canvas.Left))
		y += lineHeight
	}
}

// wrapLines переносит строки по словам; слово длиннее ширины остаётся на своей строке.
func wrapLines(f *canvas.FontFace, lines []string, width float64) []string {
	var out []string
	for _, line := range lines {
		words := strings.Fields(line)
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if current != "" && f.TextWidth(candidate) > width {
				out = append(out, current)
				current = word
				continue
			}
			current = candidate
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return out
}
