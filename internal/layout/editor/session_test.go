package editor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"eco-editor/internal/layout/models"

	"github.com/tdewolff/test"
)

func TestDragSession(t *testing.T) {
	renders := 0
	e := newEditor(&renders)
	e.AddShape()
	e.Deselect()
	renders = 0

	test.Error(t, e.BeginDrag(0, 100, 100))
	test.That(t, e.Dragging())
	test.T(t, e.Selected(), 0)

	test.Error(t, e.PointerMove(110, 100))
	test.Error(t, e.PointerMove(120, 105))
	test.Error(t, e.PointerMove(125, 110))
	e.PointerUp()
	test.That(t, !e.Dragging())

	test.T(t, renders, 3)
	el := e.Serialize().Elementos[0]
	test.T(t, el.Posicion, models.Position{X: 75, Y: 60})

	test.Error(t, e.PointerMove(500, 500))
	test.T(t, renders, 3)
}

func TestResizeSessionUsesStartBox(t *testing.T) {
	e := newEditor(nil)
	e.AddShape()

	test.Error(t, e.BeginResize(0, HandleTopLeft, 50, 50))
	test.Error(t, e.PointerMove(40, 40))
	test.Error(t, e.PointerMove(300, 300))
	test.Error(t, e.PointerMove(30, 20))
	e.PointerUp()

	test.T(t, e.Serialize().Elementos[0].Box(), models.Box{X: 30, Y: 20, W: 220, H: 130})
}

func TestSessionActive(t *testing.T) {
	e := newEditor(nil)
	e.AddShape()
	e.AddText()

	test.Error(t, e.BeginDrag(0, 0, 0))
	test.That(t, errors.Is(e.BeginResize(1, HandleBottomRight, 0, 0), ErrSessionActive))
	test.That(t, errors.Is(e.BeginDrag(1, 0, 0), ErrSessionActive))
	e.PointerUp()
	test.Error(t, e.BeginResize(1, HandleBottomRight, 0, 0))
	test.That(t, errors.Is(e.BeginResize(1, "xx", 0, 0), ErrSessionActive))
}

func TestApplyCommands(t *testing.T) {
	var cmds []Command
	test.Error(t, json.Unmarshal([]byte(`[
		{"op":"add_text"},
		{"op":"set_content","contenido":"Reciclar"},
		{"op":"toggle_style","property":"font-weight","on":"bold","off":"normal"},
		{"op":"duplicate"},
		{"op":"move","index":1,"dx":5,"dy":5},
		{"op":"resize","handle":"br","dx":100,"dy":0},
		{"op":"add_shape"},
		{"op":"set_shape","forma":"circulo"},
		{"op":"send_backward","index":2},
		{"op":"set_background","fondo":"#e3f2fd"},
		{"op":"zoom_in"}
	]`), &cmds))

	e := newEditor(nil)
	test.Error(t, e.ApplyAll(context.Background(), cmds))

	doc := e.Serialize()
	test.T(t, len(doc.Elementos), 3)
	test.String(t, doc.Elementos[1].Contenido, "Reciclar")
	test.String(t, doc.Elementos[1].Estilo.FontWeight, "bold")
	test.T(t, doc.Elementos[1].Box(), models.Box{X: 75, Y: 75, W: 300, H: 50})
	test.T(t, doc.Elementos[2].Forma, models.ShapeCircle)
	test.T(t, doc.Elementos[2].ZIndex, 2)
	test.String(t, doc.Configuracion.Fondo, "#e3f2fd")
	test.Float(t, e.Zoom(), 1.1)
}

func TestApplyErrors(t *testing.T) {
	e := newEditor(nil)
	test.That(t, errors.Is(e.Apply(context.Background(), Command{Op: "explode"}), ErrUnknownOp))
	test.That(t, errors.Is(e.Apply(context.Background(), Command{Op: OpRemove}), ErrNoSelection))

	err := e.ApplyAll(context.Background(), []Command{{Op: OpAddText}, {Op: OpSetShape, Shape: models.ShapeCircle}})
	test.That(t, errors.Is(err, ErrWrongType))
	test.T(t, len(e.Serialize().Elementos), 1)

	zero := 0
	err = e.Apply(context.Background(), Command{Op: "explode", Index: &zero})
	test.That(t, errors.Is(err, ErrUnknownOp))
	test.That(t, !errors.Is(err, ErrNoSelection))
	test.T(t, len(e.Serialize().Elementos), 1)
}
