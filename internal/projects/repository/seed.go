package repository

import (
	"context"
	"fmt"
	"log"

	"eco-editor/internal/projects/models"

	"github.com/google/uuid"
)

// ============================================================
// Seeding
// ============================================================

// seedNamespace - пространство имён uuid v5 для примеров шаблонов.
var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("eco-editor/plantillas"))

type sampleTemplate struct {
	slug        string
	nombre      string
	descripcion string
	categoria   string
	titleColor  string
	subtitle    string
	fill        string
	border      string
}

var sampleTemplates = []sampleTemplate{
	{
		slug:        "conservacion_forestal",
		nombre:      "Conservación Forestal",
		descripcion: "Plantilla para proyectos de conservación de bosques y áreas forestales",
		categoria:   "conservacion",
		titleColor:  "#2e7d32",
		subtitle:    "Protegiendo nuestros bosques para las generaciones futuras",
		fill:        "rgba(76, 175, 80, 0.1)",
		border:      "#4CAF50",
	},
	{
		slug:        "energias_renovables",
		nombre:      "Energías Renovables",
		descripcion: "Plantilla para proyectos de energías limpias y renovables",
		categoria:   "energia",
		titleColor:  "#1565c0",
		subtitle:    "El futuro de la energía limpia y sostenible",
		fill:        "rgba(33, 150, 243, 0.1)",
		border:      "#2196F3",
	},
	{
		slug:        "educacion_ambiental",
		nombre:      "Educación Ambiental",
		descripcion: "Plantilla para proyectos educativos sobre medio ambiente",
		categoria:   "educacion",
		titleColor:  "#ff9800",
		subtitle:    "Aprendiendo a cuidar nuestro planeta",
		fill:        "rgba(255, 152, 0, 0.1)",
		border:      "#FF9800",
	},
	{
		slug:        "biodiversidad",
		nombre:      "Biodiversidad",
		descripcion: "Plantilla para proyectos sobre biodiversidad y ecosistemas",
		categoria:   "ambiente",
		titleColor:  "#009688",
		subtitle:    "Protegiendo la riqueza de nuestros ecosistemas",
		fill:        "rgba(0, 150, 136, 0.1)",
		border:      "#009688",
	},
}

const sampleDocument = `{"elementos":[` +
	`{"tipo":"texto","contenido":%q,"estilo":"font-size: 32px; font-weight: bold; color: %s; text-align: center;",` +
	`"posicion":{"x":50,"y":50},"dimensiones":{"ancho":300,"alto":50},"zIndex":1},` +
	`{"tipo":"texto","contenido":%q,"estilo":"font-size: 18px; font-style: italic; text-align: center; color: #555;",` +
	`"posicion":{"x":50,"y":110},"dimensiones":{"ancho":300,"alto":40},"zIndex":2},` +
	`{"tipo":"forma","forma":"rectangulo","estilo":"background-color: %s; border-width: 2px; border-style: solid; border-color: %s; border-radius: 10px;",` +
	`"posicion":{"x":50,"y":160},"dimensiones":{"ancho":300,"alto":200},"zIndex":0}` +
	`],"configuracion":{"fondo":"#f8f9fa","ancho":400,"alto":600}}`

// SampleTemplateID - детерминированный id примера шаблона.
func SampleTemplateID(slug string) string {
	return uuid.NewSHA1(seedNamespace, []byte(slug)).String()
}

// seedTemplates заполняет таблицу шаблонов, только если она пуста.
func (r *Repository) seedTemplates(ctx context.Context) error {
	n, err := r.countTemplates(ctx)
	if err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, s := range sampleTemplates {
		t := &models.Template{
			ID:          SampleTemplateID(s.slug),
			Nombre:      s.nombre,
			Descripcion: s.descripcion,
			Categoria:   s.categoria,
			Fondo:       "#f8f9fa",
			Preview:     "img/plantillas/" + s.slug + ".png",
			Contenido:   fmt.Sprintf(sampleDocument, s.nombre, s.titleColor, s.subtitle, s.fill, s.border),
			Activo:      true,
		}
		if err := r.CreateTemplate(ctx, t); err != nil {
			return fmt.Errorf("seed template %s: %w", s.slug, err)
		}
	}
	log.Printf("[PROJECTS] Seeded %d sample templates", len(sampleTemplates))
	return nil
}
