package editor

import (
	"eco-editor/internal/layout/models"
)

// ============================================================
// Selection & property panel
// ============================================================

// Selection - выбранный элемент с манипуляторами, панелью действий и свойствами.
type Selection struct {
	Index   int           `json:"index"`
	Box     models.Box    `json:"box"`
	Handles []HandlePoint `json:"handles"`
	Toolbar models.Box    `json:"toolbar"`
	Panel   Panel         `json:"panel"`
}

type Panel struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Field - редактируемое свойство. Property - имя CSS-свойства
// либо поле элемента (contenido, url, forma).
type Field struct {
	Property string   `json:"property"`
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Options  []string `json:"options,omitempty"`
}

var (
	fontSizes    = []string{"12px", "14px", "16px", "18px", "20px", "24px", "32px", "48px"}
	borderWidths = []string{"0", "1px", "2px", "3px", "5px"}
	alignments   = []string{"left", "center", "right"}
	shapeKinds   = []string{string(models.ShapeRectangle), string(models.ShapeCircle)}
)

func newSelection(i int, el models.Element) *Selection {
	b := el.Box()
	return &Selection{
		Index:   i,
		Box:     b,
		Handles: handlePoints(b),
		Toolbar: toolbarBox(b),
		Panel:   panelFor(el),
	}
}

func panelFor(el models.Element) Panel {
	style := func(prop string) string {
		v, _ := el.Estilo.Get(prop)
		return v
	}

	switch el.Tipo {
	case models.TypeText:
		return Panel{
			Title: "Editar Texto",
			Fields: []Field{
				{Property: "contenido", Label: "Contenido", Value: el.Contenido},
				{Property: "font-size", Label: "Tamaño de fuente", Value: style("font-size"), Options: fontSizes},
				{Property: "color", Label: "Color", Value: style("color")},
				{Property: "font-weight", Label: "Negrita", Value: style("font-weight")},
				{Property: "font-style", Label: "Cursiva", Value: style("font-style")},
				{Property: "text-decoration", Label: "Subrayado", Value: style("text-decoration")},
				{Property: "text-align", Label: "Alineación", Value: style("text-align"), Options: alignments},
			},
		}
	case models.TypeImage:
		return Panel{
			Title: "Editar Imagen",
			Fields: []Field{
				{Property: "url", Label: "URL de la imagen", Value: el.URL},
				{Property: "opacity", Label: "Opacidad", Value: style("opacity")},
				{Property: "border-width", Label: "Borde", Value: style("border-width"), Options: borderWidths},
				{Property: "border-color", Label: "Color del borde", Value: style("border-color")},
			},
		}
	default:
		return Panel{
			Title: "Editar Forma",
			Fields: []Field{
				{Property: "forma", Label: "Tipo de forma", Value: string(el.Forma), Options: shapeKinds},
				{Property: "background-color", Label: "Color de fondo", Value: style("background-color")},
				{Property: "opacity", Label: "Opacidad", Value: style("opacity")},
				{Property: "border-width", Label: "Borde", Value: style("border-width"), Options: borderWidths},
				{Property: "border-color", Label: "Color del borde", Value: style("border-color")},
			},
		}
	}
}
