package models

import (
	"encoding/json"
	"math"
)

// ============================================================
// Element kinds
// ============================================================

type ElementType string

const (
	TypeText  ElementType = "texto"
	TypeImage ElementType = "imagen"
	TypeShape ElementType = "forma"
)

// ElementTypes - известные варианты элемента и их подписи.
var ElementTypes = map[ElementType]string{
	TypeText:  "Texto",
	TypeImage: "Imagen",
	TypeShape: "Forma",
}

func (t ElementType) Valid() bool {
	_, ok := ElementTypes[t]
	return ok
}

// ZIndexLimit ограничивает |zIndex|; значения за пределами обрезаются при чтении.
const ZIndexLimit = 1 << 31

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangulo"
	ShapeCircle    ShapeKind = "circulo"
)

func (k ShapeKind) Valid() bool {
	return k == ShapeRectangle || k == ShapeCircle
}

// ============================================================
// Geometry
// ============================================================

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Dimensions struct {
	Ancho float64 `json:"ancho"`
	Alto  float64 `json:"alto"`
}

// Box - прямоугольник элемента в логических пикселях холста.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (b Box) Right() float64  { return b.X + b.W }
func (b Box) Bottom() float64 { return b.Y + b.H }

// ============================================================
// Element
// ============================================================

type Element struct {
	Tipo        ElementType
	Contenido   string
	URL         string
	Forma       ShapeKind
	Estilo      Style
	Posicion    Position
	Dimensiones Dimensions
	ZIndex      int
}

func (e Element) Box() Box {
	return Box{X: e.Posicion.X, Y: e.Posicion.Y, W: e.Dimensiones.Ancho, H: e.Dimensiones.Alto}
}

func (e *Element) SetBox(b Box) {
	e.Posicion = Position{X: b.X, Y: b.Y}
	e.Dimensiones = Dimensions{Ancho: b.W, Alto: b.H}
}

// ImageSource возвращает адрес изображения; старые записи хранят его в contenido.
func (e Element) ImageSource() string {
	if e.URL != "" {
		return e.URL
	}
	return e.Contenido
}

func (e Element) Clone() Element {
	e.Estilo = e.Estilo.Clone()
	return e
}

// wireElement - представление элемента в JSON-формате макета.
type wireElement struct {
	Tipo        ElementType `json:"tipo"`
	Contenido   *string     `json:"contenido,omitempty"`
	URL         *string     `json:"url,omitempty"`
	Forma       *ShapeKind  `json:"forma,omitempty"`
	Estilo      Style       `json:"estilo"`
	Posicion    Position    `json:"posicion"`
	Dimensiones Dimensions  `json:"dimensiones"`
	ZIndex      float64     `json:"zIndex"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	w := wireElement{
		Tipo:        e.Tipo,
		Estilo:      e.Estilo,
		Posicion:    e.Posicion,
		Dimensiones: e.Dimensiones,
		ZIndex:      float64(e.ZIndex),
	}
	if e.Tipo == TypeText || e.Contenido != "" {
		w.Contenido = &e.Contenido
	}
	if e.Tipo == TypeImage || e.URL != "" {
		w.URL = &e.URL
	}
	if e.Tipo == TypeShape || e.Forma != "" {
		w.Forma = &e.Forma
	}
	return json.Marshal(w)
}

func (e *Element) UnmarshalJSON(b []byte) error {
	var w wireElement
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = Element{
		Tipo:        w.Tipo,
		Estilo:      w.Estilo,
		Posicion:    w.Posicion,
		Dimensiones: w.Dimensiones,
		ZIndex:      int(math.Round(math.Max(-ZIndexLimit, math.Min(ZIndexLimit, w.ZIndex)))),
	}
	if w.Contenido != nil {
		e.Contenido = *w.Contenido
	}
	if w.URL != nil {
		e.URL = *w.URL
	}
	if w.Forma != nil {
		e.Forma = *w.Forma
	}
	return nil
}
