package editor

import (
	"math"

	"eco-editor/internal/layout/models"
)

// ============================================================
// Resize handles
// ============================================================

type Handle string

const (
	HandleTopLeft     Handle = "tl"
	HandleTopRight    Handle = "tr"
	HandleBottomLeft  Handle = "bl"
	HandleBottomRight Handle = "br"
)

// Handles - порядок отрисовки манипуляторов.
var Handles = []Handle{HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight}

func (h Handle) Valid() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight:
		return true
	}
	return false
}

const (
	MinElementSize = 20.0
	DuplicateShift = 20.0
	ToolbarHeight  = 30.0
)

// ResizeBox тянет угол h на (dx, dy) логических пикселей, противоположный угол неподвижен.
// Ширина и высота не меньше MinElementSize и округляются; для левых и верхних
// манипуляторов позиция выводится из неподвижного угла (с точностью до округления float64).
func ResizeBox(start models.Box, h Handle, dx, dy float64) models.Box {
	left := h == HandleTopLeft || h == HandleBottomLeft
	top := h == HandleTopLeft || h == HandleTopRight

	w := start.W + dx
	if left {
		w = start.W - dx
	}
	ht := start.H + dy
	if top {
		ht = start.H - dy
	}
	w = math.Round(math.Max(MinElementSize, w))
	ht = math.Round(math.Max(MinElementSize, ht))

	out := models.Box{X: start.X, Y: start.Y, W: w, H: ht}
	if left {
		out.X = start.Right() - w
	}
	if top {
		out.Y = start.Bottom() - ht
	}
	return out
}

// HandlePoint - положение манипулятора на холсте.
type HandlePoint struct {
	Handle Handle  `json:"handle"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func handlePoints(b models.Box) []HandlePoint {
	return []HandlePoint{
		{Handle: HandleTopLeft, X: b.X, Y: b.Y},
		{Handle: HandleTopRight, X: b.Right(), Y: b.Y},
		{Handle: HandleBottomLeft, X: b.X, Y: b.Bottom()},
		{Handle: HandleBottomRight, X: b.Right(), Y: b.Bottom()},
	}
}

// toolbarBox - панель действий над верхней гранью элемента.
func toolbarBox(b models.Box) models.Box {
	return models.Box{X: b.X, Y: b.Y - ToolbarHeight, W: b.W, H: ToolbarHeight}
}
