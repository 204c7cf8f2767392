package models

import (
	"encoding/json"
	"sort"
)

// ============================================================
// Canvas configuration
// ============================================================

const (
	DefaultBackground   = "#f8f9fa"
	DefaultCanvasWidth  = 400.0
	DefaultCanvasHeight = 600.0
)

type Canvas struct {
	Fondo string  `json:"fondo"`
	Ancho float64 `json:"ancho"`
	Alto  float64 `json:"alto"`
}

func DefaultCanvas() Canvas {
	return Canvas{Fondo: DefaultBackground, Ancho: DefaultCanvasWidth, Alto: DefaultCanvasHeight}
}

// ============================================================
// Document
// ============================================================

// Document - сериализуемый макет проекта или шаблона.
// Порядок Elementos - порядок вставки.
type Document struct {
	Elementos     []Element `json:"elementos"`
	Configuracion Canvas    `json:"configuracion"`
}

// NewDocument возвращает пустой документ с холстом по умолчанию.
func NewDocument() Document {
	return Document{Elementos: []Element{}, Configuracion: DefaultCanvas()}
}

func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	if d.Elementos == nil {
		d.Elementos = []Element{}
	}
	return json.Marshal(alias(d))
}

// UnmarshalJSON поверх текущего значения: отсутствующие поля configuracion сохраняются.
func (d *Document) UnmarshalJSON(b []byte) error {
	type alias Document
	a := alias(*d)
	a.Elementos = nil
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if a.Elementos == nil {
		a.Elementos = []Element{}
	}
	*d = Document(a)
	return nil
}

// Clone делает глубокую копию документа.
func (d Document) Clone() Document {
	out := Document{Elementos: make([]Element, len(d.Elementos)), Configuracion: d.Configuracion}
	for i, e := range d.Elementos {
		out.Elementos[i] = e.Clone()
	}
	return out
}

// MaxZIndex возвращает максимальный zIndex, для пустого документа 0.
func (d Document) MaxZIndex() int {
	maxZ := 0
	for _, e := range d.Elementos {
		if e.ZIndex > maxZ {
			maxZ = e.ZIndex
		}
	}
	return maxZ
}

func (d Document) NextZIndex() int {
	return d.MaxZIndex() + 1
}

// PaintOrder возвращает индексы элементов в порядке отрисовки:
// по возрастанию zIndex, при равенстве - по порядку вставки.
func (d Document) PaintOrder() []int {
	order := make([]int, len(d.Elementos))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return d.Elementos[order[a]].ZIndex < d.Elementos[order[b]].ZIndex
	})
	return order
}

// NormalizeZIndex переписывает zIndex в плотную последовательность 0..n-1,
// сохраняя текущий порядок отрисовки.
func (d *Document) NormalizeZIndex() {
	for z, i := range d.PaintOrder() {
		d.Elementos[i].ZIndex = z
	}
}
