package raster

import (
	"image/color"

	"github.com/mazznoer/csscolorparser"
)

// parseColor разбирает CSS-цвет; при ошибке или пустой строке возвращает fallback.
func parseColor(s string, fallback color.Color) color.Color {
	if s == "" {
		return fallback
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return fallback
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// withOpacity умножает альфа-канал на opacity из [0, 1].
func withOpacity(c color.Color, opacity float64) color.Color {
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*opacity + 0.5)
	return n
}
