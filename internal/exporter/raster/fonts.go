package raster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/tdewolff/canvas"
)

// ============================================================
// Fonts
// ============================================================

const (
	DefaultFontSize = 16.0
	LineHeight      = 1.2

	// ptPerPx переводит CSS-пиксели в пункты при единице холста 1px.
	ptPerPx = 72.0 / 25.4
)

var (
	fontOnce   sync.Once
	fontFamily *canvas.FontFamily
	fontErr    error
)

// family загружает Latin Modern один раз на процесс.
func family() (*canvas.FontFamily, error) {
	fontOnce.Do(func() {
		f := canvas.NewFontFamily("latin-modern")
		faces := []struct {
			ttf   []byte
			style canvas.FontStyle
		}{
			{lmroman10regular.TTF, canvas.FontRegular},
			{lmroman10bold.TTF, canvas.FontBold},
			{lmroman10italic.TTF, canvas.FontItalic},
			{lmroman10bolditalic.TTF, canvas.FontBold | canvas.FontItalic},
		}
		for _, face := range faces {
			if err := f.LoadFont(face.ttf, 0, face.style); err != nil {
				fontErr = fmt.Errorf("load font: %w", err)
				return
			}
		}
		fontFamily = f
	})
	return fontFamily, fontErr
}

// fontStyle переводит font-weight и font-style в стиль шрифта.
func fontStyle(weight, style string) canvas.FontStyle {
	s := canvas.FontRegular
	switch weight {
	case "bold", "bolder":
		s |= canvas.FontBold
	default:
		if n, err := strconv.Atoi(weight); err == nil && n >= 600 {
			s |= canvas.FontBold
		}
	}
	if style == "italic" || style == "oblique" {
		s |= canvas.FontItalic
	}
	return s
}

// face строит начертание по размеру в пикселях.
func face(f *canvas.FontFamily, sizePx float64, col color.Color, style canvas.FontStyle, decoration string) *canvas.FontFace {
	if strings.Contains(decoration, "underline") {
		return f.Face(sizePx*ptPerPx, col, style, canvas.FontNormal, canvas.FontUnderline)
	}
	return f.Face(sizePx*ptPerPx, col, style, canvas.FontNormal)
}
