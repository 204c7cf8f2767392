package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"eco-editor/internal/layout/validator"
	"eco-editor/internal/projects/models"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/tdewolff/test"
)

const migrationsPath = "../../../migrations/001_init.sql"

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "test.db"))
	test.Error(t, err)
	t.Cleanup(func() { db.Close() })

	repo := New(db)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.clock = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	test.Error(t, repo.Init(context.Background(), migrationsPath))
	return repo
}

func TestSeedTemplates(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	templates, err := repo.ListTemplates(ctx, "", false)
	test.Error(t, err)
	test.T(t, len(templates), 4)
	test.String(t, templates[0].Nombre, "Biodiversidad")

	v := validator.New(nil, 1000)
	for _, tpl := range templates {
		doc, err := v.Document([]byte(tpl.Contenido))
		test.Error(t, err)
		test.T(t, len(doc.Elementos), 3)
		test.That(t, tpl.Activo)
	}

	tpl, err := repo.GetTemplate(ctx, SampleTemplateID("energias_renovables"), true)
	test.Error(t, err)
	test.String(t, tpl.Categoria, "energia")

	// повторный Init не дублирует
	test.Error(t, repo.Init(ctx, migrationsPath))
	templates, err = repo.ListTemplates(ctx, "", true)
	test.Error(t, err)
	test.T(t, len(templates), 4)
}

func TestProjectsCRUD(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	p := &models.Project{Nombre: "Test", Categoria: "general", Contenido: `{"elementos":[]}`}
	test.Error(t, repo.CreateProject(ctx, p))
	test.That(t, p.ID != "")

	got, err := repo.GetProject(ctx, p.ID)
	test.Error(t, err)
	test.String(t, got.Nombre, "Test")
	test.String(t, got.Contenido, `{"elementos":[]}`)
	test.T(t, got.FechaCreacion, p.FechaCreacion)

	test.Error(t, repo.UpdateProjectMeta(ctx, p.ID, "Bosque", "desc", "conservacion"))
	test.Error(t, repo.ReplaceProjectContent(ctx, p.ID, `{"elementos":[{}]}`))
	got, err = repo.GetProject(ctx, p.ID)
	test.Error(t, err)
	test.String(t, got.Nombre, "Bosque")
	test.String(t, got.Categoria, "conservacion")
	test.String(t, got.Contenido, `{"elementos":[{}]}`)
	test.That(t, got.FechaModificacion.After(got.FechaCreacion))

	got.Nombre = "Río"
	got.Contenido = `{}`
	test.Error(t, repo.SaveProject(ctx, got))
	again, err := repo.GetProject(ctx, p.ID)
	test.Error(t, err)
	test.String(t, again.Nombre, "Río")
	test.String(t, again.Contenido, `{}`)

	test.Error(t, repo.DeleteProject(ctx, p.ID))
	_, err = repo.GetProject(ctx, p.ID)
	test.That(t, errors.Is(err, ErrNotFound))
	test.That(t, errors.Is(repo.DeleteProject(ctx, p.ID), ErrNotFound))
	test.That(t, errors.Is(repo.UpdateProjectMeta(ctx, "missing", "a", "", "general"), ErrNotFound))
	test.That(t, errors.Is(repo.SaveProject(ctx, &models.Project{ID: "missing"}), ErrNotFound))
}

func TestListProjectsOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a := &models.Project{Nombre: "A", Categoria: "energia", Contenido: "{}"}
	b := &models.Project{Nombre: "B", Categoria: "energia", Contenido: "{}"}
	c := &models.Project{Nombre: "C", Categoria: "ambiente", Contenido: "{}"}
	test.Error(t, repo.CreateProject(ctx, a))
	test.Error(t, repo.CreateProject(ctx, b))
	test.Error(t, repo.CreateProject(ctx, c))
	test.Error(t, repo.ReplaceProjectContent(ctx, a.ID, `{"elementos":[]}`))

	list, err := repo.ListProjects(ctx, 0)
	test.Error(t, err)
	names := []string{}
	for _, p := range list {
		names = append(names, p.Nombre)
	}
	test.T(t, names, []string{"A", "C", "B"})

	list, err = repo.ListProjects(ctx, 2)
	test.Error(t, err)
	test.T(t, len(list), 2)

	counts, err := repo.CategoryCounts(ctx)
	test.Error(t, err)
	test.T(t, counts, []models.CategoryCount{{Categoria: "energia", Total: 2}, {Categoria: "ambiente", Total: 1}})
}

func TestTemplatesCRUD(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	tpl := &models.Template{Nombre: "Agua", Categoria: "ambiente", Fondo: "#e3f2fd", Contenido: "{}", Activo: true}
	test.Error(t, repo.CreateTemplate(ctx, tpl))

	list, err := repo.ListTemplates(ctx, "ambiente", false)
	test.Error(t, err)
	test.T(t, len(list), 2)
	test.String(t, list[0].Nombre, "Agua")

	test.Error(t, repo.SetTemplateActive(ctx, tpl.ID, false))
	_, err = repo.GetTemplate(ctx, tpl.ID, true)
	test.That(t, errors.Is(err, ErrNotFound))
	got, err := repo.GetTemplate(ctx, tpl.ID, false)
	test.Error(t, err)
	test.That(t, !got.Activo)

	list, err = repo.ListTemplates(ctx, "ambiente", false)
	test.Error(t, err)
	test.T(t, len(list), 1)
	list, err = repo.ListTemplates(ctx, "ambiente", true)
	test.Error(t, err)
	test.T(t, len(list), 2)

	got.Nombre = "Agua limpia"
	got.Fondo = "#ffffff"
	test.Error(t, repo.SaveTemplate(ctx, got))
	got, err = repo.GetTemplate(ctx, tpl.ID, false)
	test.Error(t, err)
	test.String(t, got.Nombre, "Agua limpia")
	test.That(t, !got.Activo)

	test.Error(t, repo.DeleteTemplate(ctx, tpl.ID))
	test.That(t, errors.Is(repo.DeleteTemplate(ctx, tpl.ID), ErrNotFound))
	test.That(t, errors.Is(repo.SetTemplateActive(ctx, tpl.ID, true), ErrNotFound))
}
