package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"eco-editor/internal/layout/editor"
	layout "eco-editor/internal/layout/models"
	"eco-editor/internal/layout/validator"
	"eco-editor/internal/projects/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/tdewolff/test"
)

type fakeRenderer struct {
	calls int
	err   error
}

func (r *fakeRenderer) RenderPNG(_ context.Context, _ layout.Document, _ float64) ([]byte, error) {
	r.calls++
	return []byte("\x89PNG fake"), r.err
}

type fakeProber struct{}

func (fakeProber) Probe(context.Context, string) (int, int, error) { return 400, 200, nil }

type fixture struct {
	repo      *repository.Repository
	projects  *ProjectService
	templates *TemplateService
	export    *ExportService
	sessions  *EditorSessions
	renderer  *fakeRenderer
	validator *validator.Validator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := repository.OpenSQLite(filepath.Join(dir, "test.db"))
	test.Error(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	test.Error(t, repo.Init(context.Background(), "../../../migrations/001_init.sql"))

	v := validator.New([]string{"trusted-host"}, 1000)
	projects := NewProjectService(repo, v)
	renderer := &fakeRenderer{}
	return &fixture{
		repo:      repo,
		projects:  projects,
		templates: NewTemplateService(repo, v),
		export:    NewExportService(projects, renderer, NewExportStorage(filepath.Join(dir, "exports")), 2),
		sessions:  NewEditorSessions(projects, v, fakeProber{}, false),
		renderer:  renderer,
		validator: v,
	}
}

func TestCreateDefaultDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, notice, err := f.projects.Create(ctx, CreateInput{Nombre: "Test"})
	test.Error(t, err)
	test.T(t, notice.Kind, NoticeSuccess)
	test.String(t, p.Categoria, CategoryDefault)

	doc, err := f.projects.LoadDocument(ctx, p.ID)
	test.Error(t, err)
	test.T(t, len(doc.Elementos), 0)
	test.T(t, doc.Configuracion, layout.Canvas{Fondo: "#f8f9fa", Ancho: 400, Alto: 600})
}

func TestCreateFromTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _, err := f.projects.Create(ctx, CreateInput{
		Nombre:      "Bosque",
		Categoria:   "conservacion",
		PlantillaID: repository.SampleTemplateID("conservacion_forestal"),
	})
	test.Error(t, err)
	test.String(t, p.Categoria, "conservacion")

	doc, err := f.projects.LoadDocument(ctx, p.ID)
	test.Error(t, err)
	test.T(t, len(doc.Elementos), 3)
	test.String(t, doc.Elementos[0].Contenido, "Conservación Forestal")

	_, _, err = f.projects.Create(ctx, CreateInput{Nombre: "X", PlantillaID: "missing"})
	test.That(t, errors.Is(err, ErrNotFound))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	_, notice, err := f.projects.Create(context.Background(), CreateInput{Nombre: "   "})
	test.That(t, errors.Is(err, ErrValidation))
	test.T(t, notice, Notice{Kind: NoticeError, Text: "El nombre del proyecto es obligatorio"})

	p, _, err := f.projects.Create(context.Background(), CreateInput{Nombre: "A", Categoria: "desconocida"})
	test.Error(t, err)
	test.String(t, p.Categoria, CategoryDefault)
}

func TestSaveDocumentAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _, err := f.projects.Create(ctx, CreateInput{Nombre: "Test"})
	test.Error(t, err)

	bad := []byte(`{"elementos":[
		{"tipo":"texto","contenido":"ok","estilo":"","posicion":{"x":0,"y":0},"zIndex":1},
		{"tipo":"desconocido","estilo":"","posicion":{"x":0,"y":0},"zIndex":2}
	]}`)
	_, notice, err := f.projects.SaveDocument(ctx, p.ID, bad, nil)
	test.That(t, errors.Is(err, ErrValidation))
	test.T(t, notice.Kind, NoticeError)

	doc, err := f.projects.LoadDocument(ctx, p.ID)
	test.Error(t, err)
	test.T(t, len(doc.Elementos), 0)

	bad = []byte(`{"elementos":[{"tipo":"texto","contenido":"a","estilo":"","posicion":{"x":"abc","y":0},"zIndex":1}]}`)
	_, _, err = f.projects.SaveDocument(ctx, "", bad, &Meta{Nombre: "Nuevo"})
	test.That(t, errors.Is(err, ErrValidation))
	list, err := f.projects.Recent(ctx, 0)
	test.Error(t, err)
	test.T(t, len(list), 1)
}

func TestSaveDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	raw := []byte(`{"elementos":[
		{"tipo":"forma","estilo":"background-color: #4CAF50;","posicion":{"x":10,"y":20},"dimensiones":{"ancho":50,"alto":50},"zIndex":1},
		{"tipo":"imagen","contenido":"https://trusted-host/img.png","estilo":"","posicion":{"x":0,"y":0},"zIndex":0}
	],"configuracion":{"fondo":"#ffffff","ancho":800,"alto":600}}`)

	id, notice, err := f.projects.SaveDocument(ctx, "", raw, &Meta{Nombre: "Nuevo", Categoria: "energia"})
	test.Error(t, err)
	test.T(t, notice.Kind, NoticeSuccess)

	doc, err := f.projects.LoadDocument(ctx, id)
	test.Error(t, err)
	test.T(t, len(doc.Elementos), 2)
	test.String(t, doc.Elementos[1].URL, "https://trusted-host/img.png")
	test.Float(t, doc.Configuracion.Ancho, 800)

	_, notice, err = f.projects.SaveDocument(ctx, id, []byte(`{"elementos":[]}`), &Meta{Nombre: "Renombrado"})
	test.Error(t, err)
	test.String(t, notice.Text, "Proyecto actualizado correctamente")
	p, err := f.projects.Get(ctx, id)
	test.Error(t, err)
	test.String(t, p.Nombre, "Renombrado")
	test.String(t, p.Categoria, CategoryDefault)

	_, _, err = f.projects.SaveDocument(ctx, "missing", []byte(`{"elementos":[]}`), nil)
	test.That(t, errors.Is(err, ErrNotFound))
	_, _, err = f.projects.SaveDocument(ctx, "", []byte(`{"elementos":[]}`), nil)
	test.That(t, errors.Is(err, ErrValidation))
}

func TestLoadMalformedDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _, err := f.projects.Create(ctx, CreateInput{Nombre: "Roto"})
	test.Error(t, err)
	test.Error(t, f.repo.ReplaceProjectContent(ctx, p.ID, "{not json"))

	doc, err := f.projects.LoadDocument(ctx, p.ID)
	test.Error(t, err)
	test.T(t, doc, layout.NewDocument())
}

func TestUpdateDeleteProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _, err := f.projects.Create(ctx, CreateInput{Nombre: "Test"})
	test.Error(t, err)

	_, err = f.projects.Update(ctx, p.ID, Meta{Nombre: "Agua", Categoria: "ambiente"})
	test.Error(t, err)
	counts, err := f.projects.CategoryCounts(ctx)
	test.Error(t, err)
	test.T(t, len(counts), 1)
	test.String(t, counts[0].Categoria, "ambiente")

	notice, err := f.projects.Delete(ctx, p.ID)
	test.Error(t, err)
	test.String(t, notice.Text, `Proyecto "Agua" eliminado correctamente`)
	_, err = f.projects.Delete(ctx, p.ID)
	test.That(t, errors.Is(err, ErrNotFound))
}

func TestTemplates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.templates.List(ctx, CategoryAll)
	test.Error(t, err)
	test.T(t, len(list), 4)
	list, err = f.templates.List(ctx, "energia")
	test.Error(t, err)
	test.T(t, len(list), 1)

	id, notice, err := f.templates.Save(ctx, "", TemplateInput{
		Nombre:    "Reciclaje",
		Categoria: "otra",
		Fondo:     "#e8f5e9",
		Documento: json.RawMessage(`{"elementos":[{"tipo":"forma","estilo":"","posicion":{"x":0,"y":0},"zIndex":0}]}`),
	})
	test.Error(t, err)
	test.T(t, notice.Kind, NoticeSuccess)

	tpl, err := f.templates.Get(ctx, id, true)
	test.Error(t, err)
	test.String(t, tpl.Categoria, CategoryDefault)
	doc, err := f.templates.Document(ctx, id)
	test.Error(t, err)
	test.String(t, doc.Configuracion.Fondo, "#e8f5e9")

	_, _, err = f.templates.Save(ctx, "", TemplateInput{Nombre: "X", Documento: json.RawMessage(`{"elementos":[{"tipo":"video"}]}`)})
	test.That(t, errors.Is(err, ErrValidation))
	_, _, err = f.templates.Save(ctx, "", TemplateInput{Nombre: "X", Fondo: "no-es-color"})
	test.That(t, errors.Is(err, ErrValidation))
	_, _, err = f.templates.Save(ctx, "", TemplateInput{})
	test.That(t, errors.Is(err, ErrValidation))

	_, err = f.templates.ToggleActive(ctx, id, false)
	test.Error(t, err)
	_, err = f.templates.Get(ctx, id, true)
	test.That(t, errors.Is(err, ErrNotFound))
	all, err := f.templates.ListAll(ctx, "")
	test.Error(t, err)
	test.T(t, len(all), 5)

	_, err = f.templates.Delete(ctx, id)
	test.Error(t, err)
	_, err = f.templates.Delete(ctx, id)
	test.That(t, errors.Is(err, ErrNotFound))
}

func TestTemplateFromProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _, err := f.projects.Create(ctx, CreateInput{
		Nombre:      "Mi bosque",
		Categoria:   "conservacion",
		PlantillaID: repository.SampleTemplateID("conservacion_forestal"),
	})
	test.Error(t, err)

	id, _, err := f.templates.FromProject(ctx, p.ID, "", "")
	test.Error(t, err)
	tpl, err := f.templates.Get(ctx, id, true)
	test.Error(t, err)
	test.String(t, tpl.Nombre, "Mi bosque")
	test.String(t, tpl.Categoria, "conservacion")

	doc, err := f.templates.Document(ctx, id)
	test.Error(t, err)
	test.T(t, len(doc.Elementos), 3)

	_, _, err = f.templates.FromProject(ctx, "missing", "", "")
	test.That(t, errors.Is(err, ErrNotFound))
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _, err := f.projects.Create(ctx, CreateInput{Nombre: "Energía Solar ñandú"})
	test.Error(t, err)

	res, err := f.export.Export(ctx, p.ID, ParseFormat("imagen"))
	test.Error(t, err)
	test.String(t, res.Filename, "energia-solar-nandu.png")
	test.That(t, !res.Cached)
	data, err := os.ReadFile(res.Path)
	test.Error(t, err)
	test.String(t, string(data), "\x89PNG fake")

	res, err = f.export.Export(ctx, p.ID, ParseFormat("desconocido"))
	test.Error(t, err)
	test.That(t, res.Cached)
	test.T(t, f.renderer.calls, 1)

	res, err = f.export.Export(ctx, p.ID, ParseFormat("PDF"))
	test.That(t, errors.Is(err, ErrExportUnsupported))
	test.T(t, res.Notice.Kind, NoticeInfo)
	_, err = f.export.Export(ctx, p.ID, FormatHTML)
	test.That(t, errors.Is(err, ErrExportUnsupported))

	_, err = f.export.Export(ctx, "missing", FormatImage)
	test.That(t, errors.Is(err, ErrNotFound))

	f.export.Forget(p.ID)
	_, err = os.Stat(res.Path)
	test.That(t, os.IsNotExist(err))
}

func TestSlug(t *testing.T) {
	var tts = []struct {
		in, out string
	}{
		{"Conservación Forestal", "conservacion-forestal"},
		{"  ¡Hola!  Mundo ", "hola-mundo"},
		{"Año 2024", "ano-2024"},
		{"***", "proyecto"},
		{"", "proyecto"},
	}
	for _, tt := range tts {
		t.Run(tt.in, func(t *testing.T) {
			test.String(t, Slug(tt.in), tt.out)
		})
	}
}

func TestEditorSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _, err := f.projects.Create(ctx, CreateInput{Nombre: "Test"})
	test.Error(t, err)

	st, err := f.sessions.Open(ctx, p.ID)
	test.Error(t, err)
	test.That(t, st.Token != "")
	test.T(t, st.View.Selected, -1)

	st, err = f.sessions.Apply(ctx, st.Token, []editor.Command{
		{Op: editor.OpAddText},
		{Op: editor.OpDuplicate},
	})
	test.Error(t, err)
	test.T(t, len(st.View.Document.Elementos), 2)
	test.T(t, st.View.Selected, 1)
	test.T(t, st.Renders, 2)
	test.That(t, st.View.Document.Elementos[1].ZIndex > st.View.Document.Elementos[0].ZIndex)

	notice, err := f.sessions.Save(ctx, st.Token)
	test.Error(t, err)
	test.T(t, notice.Kind, NoticeSuccess)
	doc, err := f.projects.LoadDocument(ctx, p.ID)
	test.Error(t, err)
	test.T(t, len(doc.Elementos), 2)

	test.That(t, f.sessions.Close(st.Token))
	test.That(t, !f.sessions.Close(st.Token))
	_, err = f.sessions.State(st.Token)
	test.That(t, errors.Is(err, ErrNotFound))
}

func TestEditorSessionsExpire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	clock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	f.sessions.now = func() time.Time { return clock }

	p, _, err := f.projects.Create(ctx, CreateInput{Nombre: "Test"})
	test.Error(t, err)
	idle, err := f.sessions.Open(ctx, p.ID)
	test.Error(t, err)
	busy, err := f.sessions.Open(ctx, p.ID)
	test.Error(t, err)
	test.T(t, f.sessions.Len(), 2)

	clock = clock.Add(SessionTTL - time.Minute)
	_, err = f.sessions.State(busy.Token)
	test.Error(t, err)

	clock = clock.Add(2 * time.Minute)
	_, err = f.sessions.State(idle.Token)
	test.That(t, errors.Is(err, ErrNotFound))
	test.T(t, f.sessions.Len(), 1)

	_, err = f.sessions.State(busy.Token)
	test.Error(t, err)
}

func TestEditorSessionsRun(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	f.sessions.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return clock
	}

	p, _, err := f.projects.Create(ctx, CreateInput{Nombre: "Test"})
	test.Error(t, err)
	_, err = f.sessions.Open(ctx, p.ID)
	test.Error(t, err)

	mu.Lock()
	clock = clock.Add(SessionTTL + time.Second)
	mu.Unlock()

	go f.sessions.Run(ctx, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for f.sessions.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	test.T(t, f.sessions.Len(), 0)
}

func TestDenseZOrderSessions(t *testing.T) {
	f := newFixture(t)
	sessions := NewEditorSessions(f.projects, f.validator, fakeProber{}, true)
	raw := []byte(`{"elementos":[
		{"tipo":"forma","estilo":"","posicion":{"x":0,"y":0},"zIndex":5},
		{"tipo":"forma","estilo":"","posicion":{"x":0,"y":0},"zIndex":9}
	]}`)

	st, err := sessions.ApplyDocument(context.Background(), raw, 0, 1, []editor.Command{{Op: editor.OpBringToFront}})
	test.Error(t, err)
	test.T(t, st.View.Document.Elementos[0].ZIndex, 1)
	test.T(t, st.View.Document.Elementos[1].ZIndex, 0)
}

func TestApplyDocument(t *testing.T) {
	f := newFixture(t)
	raw := []byte(`{"elementos":[{"tipo":"forma","estilo":"","posicion":{"x":10,"y":10},"dimensiones":{"ancho":50,"alto":50},"zIndex":0}]}`)

	st, err := f.sessions.ApplyDocument(context.Background(), raw, 0, 2, []editor.Command{
		{Op: editor.OpMove, DX: 20, DY: 40},
	})
	test.Error(t, err)
	test.T(t, st.View.Document.Elementos[0].Posicion, layout.Position{X: 20, Y: 30})
	test.That(t, st.View.Selection != nil)
	test.That(t, st.Markup != "")

	_, err = f.sessions.ApplyDocument(context.Background(), []byte(`{"elementos":[{"tipo":"x"}]}`), -1, 1, nil)
	test.That(t, errors.Is(err, ErrValidation))
	_, err = f.sessions.ApplyDocument(context.Background(), raw, 5, 1, nil)
	test.That(t, errors.Is(err, ErrValidation))
}
