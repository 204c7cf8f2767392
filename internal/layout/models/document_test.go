package models

import (
	"encoding/json"
	"testing"

	"github.com/tdewolff/test"
)

func sampleDocument() Document {
	return Document{
		Elementos: []Element{
			{
				Tipo:        TypeText,
				Contenido:   "Salvemos el <b>planeta</b>",
				Estilo:      ParseStyle("font-size: 24px; font-weight: bold; color: #2E7D32; text-align: center;"),
				Posicion:    Position{X: 50, Y: 30},
				Dimensiones: Dimensions{Ancho: 300, Alto: 50},
				ZIndex:      2,
			},
			{
				Tipo:        TypeImage,
				URL:         "https://images.unsplash.com/photo.jpg",
				Estilo:      ParseStyle("border-radius: 8px;"),
				Posicion:    Position{X: 10.5, Y: -4},
				Dimensiones: Dimensions{Ancho: 200, Alto: 133},
				ZIndex:      1,
			},
			{
				Tipo:        TypeShape,
				Forma:       ShapeCircle,
				Estilo:      ParseStyle("background-color: rgba(76, 175, 80, 0.3); border: 2px solid #4CAF50;"),
				Posicion:    Position{X: 0, Y: 0},
				Dimensiones: Dimensions{Ancho: 100, Alto: 100},
				ZIndex:      2,
			},
		},
		Configuracion: Canvas{Fondo: "#e8f5e9", Ancho: 800, Alto: 600},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := sampleDocument()
	b, err := json.Marshal(doc)
	test.Error(t, err)

	var back Document
	test.Error(t, json.Unmarshal(b, &back))
	test.T(t, back, doc)
}

func TestDocumentWireFormat(t *testing.T) {
	b, err := json.Marshal(NewDocument())
	test.Error(t, err)
	test.String(t, string(b), `{"elementos":[],"configuracion":{"fondo":"#f8f9fa","ancho":400,"alto":600}}`)

	var doc Document
	test.Error(t, json.Unmarshal([]byte(`{"configuracion":{"fondo":"#fff","ancho":1,"alto":1}}`), &doc))
	test.That(t, doc.Elementos != nil)
	test.T(t, len(doc.Elementos), 0)
}

func TestElementWireFields(t *testing.T) {
	b, err := json.Marshal(Element{Tipo: TypeShape, Forma: ShapeRectangle})
	test.Error(t, err)
	test.String(t, string(b), `{"tipo":"forma","forma":"rectangulo","estilo":"","posicion":{"x":0,"y":0},"dimensiones":{"ancho":0,"alto":0},"zIndex":0}`)

	var e Element
	test.Error(t, json.Unmarshal([]byte(`{"tipo":"imagen","contenido":"https://x/y.png","estilo":"","posicion":{"x":1,"y":2},"zIndex":3.4}`), &e))
	test.String(t, e.ImageSource(), "https://x/y.png")
	test.T(t, e.ZIndex, 3)

	test.Error(t, json.Unmarshal([]byte(`{"tipo":"forma","estilo":"","posicion":{"x":0,"y":0},"zIndex":1e30}`), &e))
	test.T(t, e.ZIndex, ZIndexLimit)
	test.Error(t, json.Unmarshal([]byte(`{"tipo":"forma","estilo":"","posicion":{"x":0,"y":0},"zIndex":-1e30}`), &e))
	test.T(t, e.ZIndex, -ZIndexLimit)
}

func TestZIndex(t *testing.T) {
	test.T(t, NewDocument().MaxZIndex(), 0)
	test.T(t, NewDocument().NextZIndex(), 1)

	doc := sampleDocument()
	test.T(t, doc.MaxZIndex(), 2)
	test.T(t, doc.NextZIndex(), 3)
}

func TestPaintOrder(t *testing.T) {
	doc := sampleDocument()
	test.T(t, doc.PaintOrder(), []int{1, 0, 2})
}

func TestNormalizeZIndex(t *testing.T) {
	doc := sampleDocument()
	doc.NormalizeZIndex()
	test.T(t, doc.Elementos[1].ZIndex, 0)
	test.T(t, doc.Elementos[0].ZIndex, 1)
	test.T(t, doc.Elementos[2].ZIndex, 2)
}

func TestDocumentClone(t *testing.T) {
	doc := sampleDocument()
	cp := doc.Clone()
	cp.Elementos[0].Posicion.X = 999
	cp.Elementos[0].Estilo.Set("color", "red")

	test.Float(t, doc.Elementos[0].Posicion.X, 50)
	test.String(t, doc.Elementos[0].Estilo.Color, "#2E7D32")
}
