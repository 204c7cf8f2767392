package editor

import (
	"fmt"

	"eco-editor/internal/layout/models"
)

// ============================================================
// Pointer sessions
// ============================================================

type sessionKind int

const (
	sessionDrag sessionKind = iota + 1
	sessionResize
)

// pointerSession - захват указателя от нажатия до отпускания.
type pointerSession struct {
	kind   sessionKind
	index  int
	handle Handle

	// последняя точка для перетаскивания, начальная для изменения размера
	px, py float64
	start  models.Box
}

// Dragging сообщает, идёт ли сейчас перетаскивание или изменение размера.
func (e *Editor) Dragging() bool {
	return e.session != nil
}

// BeginDrag выбирает элемент и начинает перетаскивание из экранной точки (px, py).
func (e *Editor) BeginDrag(i int, px, py float64) error {
	if e.session != nil {
		return ErrSessionActive
	}
	if _, err := e.element(i); err != nil {
		return err
	}
	e.selected = i
	e.session = &pointerSession{kind: sessionDrag, index: i, px: px, py: py}
	return nil
}

// BeginResize начинает изменение размера за манипулятор h.
func (e *Editor) BeginResize(i int, h Handle, px, py float64) error {
	if e.session != nil {
		return ErrSessionActive
	}
	if !h.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidHandle, h)
	}
	el, err := e.element(i)
	if err != nil {
		return err
	}
	e.selected = i
	e.session = &pointerSession{kind: sessionResize, index: i, handle: h, px: px, py: py, start: el.Box()}
	return nil
}

// PointerMove применяет движение к модели сразу. Без активного захвата ничего не делает.
func (e *Editor) PointerMove(px, py float64) error {
	s := e.session
	if s == nil {
		return nil
	}

	switch s.kind {
	case sessionDrag:
		if err := e.move(s.index, px-s.px, py-s.py); err != nil {
			return err
		}
		s.px, s.py = px, py
	case sessionResize:
		el, err := e.element(s.index)
		if err != nil {
			return err
		}
		el.SetBox(ResizeBox(s.start, s.handle, (px-s.px)/e.zoom, (py-s.py)/e.zoom))
	}
	e.emit()
	return nil
}

// PointerUp завершает захват; элемент остаётся выбранным.
func (e *Editor) PointerUp() {
	e.session = nil
}
