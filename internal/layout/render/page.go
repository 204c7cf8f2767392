package render

import (
	"bytes"
	"html/template"
	"time"

	"eco-editor/internal/layout/models"
)

// ============================================================
// View page
// ============================================================

// PageData - данные страницы просмотра проекта.
type PageData struct {
	ID          string
	Nombre      string
	Descripcion string
	Categoria   string
	Creado      time.Time
	Modificado  time.Time
	// NoticeKind и NoticeText показываются один раз.
	NoticeKind string
	NoticeText string
}

var pageTemplate = template.Must(template.New("view").Funcs(template.FuncMap{
	"fecha": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02/01/2006 15:04")
	},
	"num": formatFloat,
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Visualizar: {{.Page.Nombre}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.proyecto-container { margin: 0 auto; box-shadow: 0 0 20px rgba(0,0,0,0.1); }
.aviso { padding: .75rem 1rem; border-radius: 4px; margin-bottom: 1rem; }
.aviso-success { background: #d4edda; } .aviso-error { background: #f8d7da; }
.aviso-warning { background: #fff3cd; } .aviso-info { background: #d1ecf1; }
@media print { .no-print { display: none; } }
</style>
</head>
<body>
{{if .Page.NoticeText}}<div class="aviso aviso-{{.Page.NoticeKind}} no-print">{{.Page.NoticeText}}</div>{{end}}
<h1>{{.Page.Nombre}}</h1>
{{if .Page.Descripcion}}<p>{{.Page.Descripcion}}</p>{{end}}
<div class="no-print">
<button onclick="window.print()">Imprimir</button>
<a href="/api/v1/projects/{{.Page.ID}}/export?formato=imagen">Exportar</a>
</div>
{{.Canvas}}
<table class="no-print">
<tr><th>Nombre:</th><td>{{.Page.Nombre}}</td></tr>
{{if .Page.Descripcion}}<tr><th>Descripción:</th><td>{{.Page.Descripcion}}</td></tr>{{end}}
{{if .Page.Categoria}}<tr><th>Categoría:</th><td>{{.Page.Categoria}}</td></tr>{{end}}
<tr><th>Fecha de creación:</th><td>{{fecha .Page.Creado}}</td></tr>
<tr><th>Última modificación:</th><td>{{fecha .Page.Modificado}}</td></tr>
<tr><th>Dimensiones:</th><td>{{num .Ancho}} × {{num .Alto}} px</td></tr>
<tr><th>Número de elementos:</th><td>{{.Count}}</td></tr>
</table>
</body>
</html>`))

// Page собирает полную HTML-страницу просмотра.
func (r *Renderer) Page(doc models.Document, page PageData) (string, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Page   PageData
		Canvas template.HTML
		Ancho  float64
		Alto   float64
		Count  int
	}{
		Page:   page,
		Canvas: template.HTML(r.View(doc)),
		Ancho:  doc.Configuracion.Ancho,
		Alto:   doc.Configuracion.Alto,
		Count:  len(doc.Elementos),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
