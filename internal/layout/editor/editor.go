package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"eco-editor/internal/layout/models"
	"eco-editor/internal/layout/validator"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrIndexOutOfRange = errors.New("element index out of range")
	ErrNoSelection     = errors.New("no element selected")
	ErrSessionActive   = errors.New("pointer session already active")
	ErrInvalidHandle   = errors.New("invalid resize handle")
	ErrInvalidImageURL = errors.New("image url not allowed")
	ErrImageLoad       = errors.New("image could not be loaded")
	ErrWrongType       = errors.New("operation not supported for element type")
	ErrInvalidValue    = errors.New("invalid value")
	ErrUnknownOp       = errors.New("unknown operation")
)

// ============================================================
// Defaults
// ============================================================

const (
	DefaultText       = "Texto de ejemplo"
	DefaultTextStyle  = "font-size: 16px; color: #333;"
	DefaultShapeStyle = "background-color: rgba(76, 175, 80, 0.3); border: 2px solid #4CAF50;"
	DefaultImageWidth = 200.0

	ZoomStep = 0.1
	MinZoom  = 0.1
)

var defaultOrigin = models.Position{X: 50, Y: 50}

// ============================================================
// Editor
// ============================================================

// View - полное состояние, которое получает хук отрисовки.
type View struct {
	Document  models.Document `json:"document"`
	Selected  int             `json:"selected"`
	Zoom      float64         `json:"zoom"`
	Selection *Selection      `json:"selection,omitempty"`
}

type RenderFunc func(View)

type Options struct {
	Validator *validator.Validator
	Prober    ImageProber
	Render    RenderFunc
	// DenseZOrder переписывает zIndex в 0..n-1 после каждого изменения порядка.
	DenseZOrder bool
}

// Editor - состояние редактора макета. Не потокобезопасен.
// После каждой операции, меняющей состояние, хук Render вызывается ровно один раз.
type Editor struct {
	doc      models.Document
	selected int
	zoom     float64
	session  *pointerSession

	validator *validator.Validator
	prober    ImageProber
	render    RenderFunc
	dense     bool
}

func New(opts Options) *Editor {
	return &Editor{
		doc:       models.NewDocument(),
		selected:  -1,
		zoom:      1,
		validator: opts.Validator,
		prober:    opts.Prober,
		render:    opts.Render,
		dense:     opts.DenseZOrder,
	}
}

// Load разбирает сохранённый документ. Некорректный JSON логируется,
// и редактор продолжает с пустым документом.
func (e *Editor) Load(raw []byte) {
	doc := models.NewDocument()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			log.Printf("[EDITOR] load document: %v, using empty document", err)
			doc = models.NewDocument()
		}
	}
	e.Open(doc)
}

// Open начинает редактирование копии документа.
func (e *Editor) Open(doc models.Document) {
	e.doc = doc.Clone()
	e.selected = -1
	e.session = nil
	e.emit()
}

// Serialize возвращает копию документа для сохранения.
func (e *Editor) Serialize() models.Document {
	return e.doc.Clone()
}

func (e *Editor) Selected() int {
	return e.selected
}

func (e *Editor) Zoom() float64 {
	return e.zoom
}

// View собирает текущее состояние без вызова хука.
func (e *Editor) View() View {
	v := View{Document: e.doc.Clone(), Selected: e.selected, Zoom: e.zoom}
	if e.selected >= 0 {
		v.Selection = newSelection(e.selected, e.doc.Elementos[e.selected])
	}
	return v
}

func (e *Editor) emit() {
	if e.render != nil {
		e.render(e.View())
	}
}

func (e *Editor) element(i int) (*models.Element, error) {
	if i < 0 || i >= len(e.doc.Elementos) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return &e.doc.Elementos[i], nil
}

// ============================================================
// Adding elements
// ============================================================

func (e *Editor) AddText() int {
	return e.add(models.Element{
		Tipo:        models.TypeText,
		Contenido:   DefaultText,
		Estilo:      models.ParseStyle(DefaultTextStyle),
		Posicion:    defaultOrigin,
		Dimensiones: models.Dimensions{Ancho: 200, Alto: 50},
	})
}

func (e *Editor) AddShape() int {
	return e.add(models.Element{
		Tipo:        models.TypeShape,
		Forma:       models.ShapeRectangle,
		Estilo:      models.ParseStyle(DefaultShapeStyle),
		Posicion:    defaultOrigin,
		Dimensiones: models.Dimensions{Ancho: 200, Alto: 100},
	})
}

// AddImage проверяет адрес, загружает изображение ради пропорций и только потом добавляет элемент.
// При ошибке загрузки документ не меняется.
func (e *Editor) AddImage(ctx context.Context, url string) (int, error) {
	url = strings.TrimSpace(url)
	if e.validator != nil && !e.validator.ImageURL(url) {
		return -1, ErrInvalidImageURL
	}
	if e.prober == nil {
		return -1, fmt.Errorf("%w: no image prober", ErrImageLoad)
	}

	w, h, err := e.prober.Probe(ctx, url)
	if err != nil {
		log.Printf("[EDITOR] probe image %s: %v", url, err)
		return -1, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	if w <= 0 || h <= 0 {
		return -1, ErrImageLoad
	}

	aspect := float64(w) / float64(h)
	return e.add(models.Element{
		Tipo:        models.TypeImage,
		URL:         url,
		Posicion:    defaultOrigin,
		Dimensiones: models.Dimensions{Ancho: DefaultImageWidth, Alto: math.Round(DefaultImageWidth / aspect)},
	}), nil
}

func (e *Editor) add(el models.Element) int {
	el.ZIndex = e.doc.NextZIndex()
	e.doc.Elementos = append(e.doc.Elementos, el)
	e.selected = len(e.doc.Elementos) - 1
	e.emit()
	return e.selected
}

// ============================================================
// Selection
// ============================================================

func (e *Editor) Select(i int) (*Selection, error) {
	el, err := e.element(i)
	if err != nil {
		return nil, err
	}
	e.selected = i
	e.emit()
	return newSelection(i, *el), nil
}

func (e *Editor) Deselect() {
	e.selected = -1
	e.emit()
}

// ============================================================
// Geometry
// ============================================================

// Move сдвигает элемент на экранную дельту, делённую на масштаб. Без ограничений холстом.
func (e *Editor) Move(i int, dx, dy float64) error {
	if err := e.move(i, dx, dy); err != nil {
		return err
	}
	e.emit()
	return nil
}

func (e *Editor) move(i int, dx, dy float64) error {
	el, err := e.element(i)
	if err != nil {
		return err
	}
	el.Posicion.X += dx / e.zoom
	el.Posicion.Y += dy / e.zoom
	return nil
}

// Resize тянет манипулятор h на экранную дельту относительно текущего прямоугольника.
func (e *Editor) Resize(i int, h Handle, dx, dy float64) error {
	if !h.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidHandle, h)
	}
	el, err := e.element(i)
	if err != nil {
		return err
	}
	el.SetBox(ResizeBox(el.Box(), h, dx/e.zoom, dy/e.zoom))
	e.emit()
	return nil
}

// ============================================================
// Structure
// ============================================================

// Duplicate копирует элемент со сдвигом и новым верхним zIndex, копия становится выбранной.
func (e *Editor) Duplicate(i int) (int, error) {
	el, err := e.element(i)
	if err != nil {
		return -1, err
	}
	cp := el.Clone()
	cp.Posicion.X += DuplicateShift
	cp.Posicion.Y += DuplicateShift
	return e.add(cp), nil
}

func (e *Editor) Remove(i int) error {
	if _, err := e.element(i); err != nil {
		return err
	}
	e.doc.Elementos = append(e.doc.Elementos[:i], e.doc.Elementos[i+1:]...)
	e.selected = -1
	e.session = nil
	e.emit()
	return nil
}

func (e *Editor) BringToFront(i int) error {
	el, err := e.element(i)
	if err != nil {
		return err
	}
	el.ZIndex = e.doc.NextZIndex()
	e.reorder()
	return nil
}

// SendBackward уменьшает zIndex на единицу, не ниже нуля.
func (e *Editor) SendBackward(i int) error {
	el, err := e.element(i)
	if err != nil {
		return err
	}
	if el.ZIndex > 0 {
		el.ZIndex--
	}
	e.reorder()
	return nil
}

func (e *Editor) reorder() {
	if e.dense {
		e.doc.NormalizeZIndex()
	}
	e.emit()
}

// ============================================================
// Style & content
// ============================================================

// SetStyleProperty заменяет свойство или добавляет новое; пустое значение удаляет его.
func (e *Editor) SetStyleProperty(i int, property, value string) error {
	el, err := e.element(i)
	if err != nil {
		return err
	}
	if strings.TrimSpace(property) == "" {
		return fmt.Errorf("%w: empty property", ErrInvalidValue)
	}
	el.Estilo.Set(property, value)
	e.emit()
	return nil
}

// ToggleStyleProperty переключает свойство между on и off (negrita, cursiva, subrayado).
func (e *Editor) ToggleStyleProperty(i int, property, on, off string) error {
	el, err := e.element(i)
	if err != nil {
		return err
	}
	current, _ := el.Estilo.Get(property)
	next := on
	if current == on {
		next = off
	}
	el.Estilo.Set(property, next)
	e.emit()
	return nil
}

func (e *Editor) SetContent(i int, content string) error {
	el, err := e.element(i)
	if err != nil {
		return err
	}
	if el.Tipo != models.TypeText {
		return fmt.Errorf("%w: %s", ErrWrongType, el.Tipo)
	}
	el.Contenido = content
	e.emit()
	return nil
}

func (e *Editor) SetImageURL(i int, url string) error {
	el, err := e.element(i)
	if err != nil {
		return err
	}
	if el.Tipo != models.TypeImage {
		return fmt.Errorf("%w: %s", ErrWrongType, el.Tipo)
	}
	url = strings.TrimSpace(url)
	if e.validator != nil && !e.validator.ImageURL(url) {
		return ErrInvalidImageURL
	}
	el.URL = url
	el.Contenido = ""
	e.emit()
	return nil
}

func (e *Editor) SetShape(i int, kind models.ShapeKind) error {
	el, err := e.element(i)
	if err != nil {
		return err
	}
	if el.Tipo != models.TypeShape {
		return fmt.Errorf("%w: %s", ErrWrongType, el.Tipo)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: forma %q", ErrInvalidValue, kind)
	}
	el.Forma = kind
	e.emit()
	return nil
}

// ============================================================
// Canvas & zoom
// ============================================================

func (e *Editor) SetBackground(color string) error {
	color = strings.TrimSpace(color)
	if !validator.Color(color) {
		return fmt.Errorf("%w: fondo %q", ErrInvalidValue, color)
	}
	e.doc.Configuracion.Fondo = color
	e.emit()
	return nil
}

func (e *Editor) SetCanvasSize(w, h float64) error {
	if w <= 0 || h <= 0 || math.IsNaN(w) || math.IsNaN(h) {
		return fmt.Errorf("%w: canvas %gx%g", ErrInvalidValue, w, h)
	}
	e.doc.Configuracion.Ancho = w
	e.doc.Configuracion.Alto = h
	e.emit()
	return nil
}

func (e *Editor) ZoomIn() {
	e.SetZoom(e.zoom + ZoomStep)
}

func (e *Editor) ZoomOut() {
	e.SetZoom(e.zoom - ZoomStep)
}

func (e *Editor) ZoomReset() {
	e.SetZoom(1)
}

// SetZoom округляет масштаб до десятых, минимум MinZoom.
func (e *Editor) SetZoom(z float64) {
	if math.IsNaN(z) {
		z = 1
	}
	e.zoom = math.Max(MinZoom, math.Round(z*10)/10)
	e.emit()
}
