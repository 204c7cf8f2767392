package editor

import (
	"context"
	"fmt"

	"eco-editor/internal/layout/models"
)

// ============================================================
// Commands
// ============================================================

// Command - одна операция редактора в JSON-виде.
// Если Index не задан, операция применяется к выбранному элементу.
type Command struct {
	Op       string           `json:"op"`
	Index    *int             `json:"index,omitempty"`
	DX       float64          `json:"dx,omitempty"`
	DY       float64          `json:"dy,omitempty"`
	X        float64          `json:"x,omitempty"`
	Y        float64          `json:"y,omitempty"`
	Handle   Handle           `json:"handle,omitempty"`
	Property string           `json:"property,omitempty"`
	Value    string           `json:"value,omitempty"`
	On       string           `json:"on,omitempty"`
	Off      string           `json:"off,omitempty"`
	URL      string           `json:"url,omitempty"`
	Content  string           `json:"contenido,omitempty"`
	Shape    models.ShapeKind `json:"forma,omitempty"`
	Color    string           `json:"fondo,omitempty"`
	Width    float64          `json:"ancho,omitempty"`
	Height   float64          `json:"alto,omitempty"`
}

const (
	OpAddText       = "add_text"
	OpAddShape      = "add_shape"
	OpAddImage      = "add_image"
	OpSelect        = "select"
	OpDeselect      = "deselect"
	OpMove          = "move"
	OpResize        = "resize"
	OpPointerDown   = "pointer_down"
	OpPointerResize = "pointer_resize"
	OpPointerMove   = "pointer_move"
	OpPointerUp     = "pointer_up"
	OpDuplicate     = "duplicate"
	OpRemove        = "remove"
	OpBringToFront  = "bring_to_front"
	OpSendBackward  = "send_backward"
	OpSetStyle      = "set_style"
	OpToggleStyle   = "toggle_style"
	OpSetContent    = "set_content"
	OpSetImageURL   = "set_image_url"
	OpSetShape      = "set_shape"
	OpSetBackground = "set_background"
	OpSetCanvasSize = "set_canvas_size"
	OpZoomIn        = "zoom_in"
	OpZoomOut       = "zoom_out"
	OpZoomReset     = "zoom_reset"
)

// targetOps - команды, работающие с элементом (Index или выделенный).
var targetOps = map[string]bool{
	OpSelect:        true,
	OpMove:          true,
	OpResize:        true,
	OpPointerDown:   true,
	OpPointerResize: true,
	OpDuplicate:     true,
	OpRemove:        true,
	OpBringToFront:  true,
	OpSendBackward:  true,
	OpSetStyle:      true,
	OpToggleStyle:   true,
	OpSetContent:    true,
	OpSetImageURL:   true,
	OpSetShape:      true,
}

func (e *Editor) target(cmd Command) (int, error) {
	if cmd.Index != nil {
		return *cmd.Index, nil
	}
	if e.selected < 0 {
		return -1, ErrNoSelection
	}
	return e.selected, nil
}

// Apply выполняет одну команду.
func (e *Editor) Apply(ctx context.Context, cmd Command) error {
	switch cmd.Op {
	case OpAddText:
		e.AddText()
		return nil
	case OpAddShape:
		e.AddShape()
		return nil
	case OpAddImage:
		_, err := e.AddImage(ctx, cmd.URL)
		return err
	case OpDeselect:
		e.Deselect()
		return nil
	case OpPointerMove:
		return e.PointerMove(cmd.X, cmd.Y)
	case OpPointerUp:
		e.PointerUp()
		return nil
	case OpSetBackground:
		return e.SetBackground(cmd.Color)
	case OpSetCanvasSize:
		return e.SetCanvasSize(cmd.Width, cmd.Height)
	case OpZoomIn:
		e.ZoomIn()
		return nil
	case OpZoomOut:
		e.ZoomOut()
		return nil
	case OpZoomReset:
		e.ZoomReset()
		return nil
	}
	if !targetOps[cmd.Op] {
		return fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}

	i, err := e.target(cmd)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Op, err)
	}

	switch cmd.Op {
	case OpSelect:
		_, err = e.Select(i)
	case OpMove:
		err = e.Move(i, cmd.DX, cmd.DY)
	case OpResize:
		err = e.Resize(i, cmd.Handle, cmd.DX, cmd.DY)
	case OpPointerDown:
		err = e.BeginDrag(i, cmd.X, cmd.Y)
	case OpPointerResize:
		err = e.BeginResize(i, cmd.Handle, cmd.X, cmd.Y)
	case OpDuplicate:
		_, err = e.Duplicate(i)
	case OpRemove:
		err = e.Remove(i)
	case OpBringToFront:
		err = e.BringToFront(i)
	case OpSendBackward:
		err = e.SendBackward(i)
	case OpSetStyle:
		err = e.SetStyleProperty(i, cmd.Property, cmd.Value)
	case OpToggleStyle:
		err = e.ToggleStyleProperty(i, cmd.Property, cmd.On, cmd.Off)
	case OpSetContent:
		err = e.SetContent(i, cmd.Content)
	case OpSetImageURL:
		err = e.SetImageURL(i, cmd.URL)
	case OpSetShape:
		err = e.SetShape(i, cmd.Shape)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Op, err)
	}
	return nil
}

// ApplyAll выполняет команды по порядку и останавливается на первой ошибке.
func (e *Editor) ApplyAll(ctx context.Context, cmds []Command) error {
	for n, cmd := range cmds {
		if err := e.Apply(ctx, cmd); err != nil {
			return fmt.Errorf("command %d: %w", n, err)
		}
	}
	return nil
}
