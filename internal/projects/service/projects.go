package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	layout "eco-editor/internal/layout/models"
	"eco-editor/internal/layout/validator"
	"eco-editor/internal/projects/models"
	"eco-editor/internal/projects/repository"
)

// ============================================================
// Project Service
// ============================================================

const RecentProjects = 6

type ProjectService struct {
	repo      *repository.Repository
	validator *validator.Validator
}

func NewProjectService(repo *repository.Repository, v *validator.Validator) *ProjectService {
	return &ProjectService{repo: repo, validator: v}
}

type CreateInput struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Categoria   string `json:"categoria"`
	PlantillaID string `json:"plantilla_id"`
}

// Meta - редактируемые метаданные проекта.
type Meta struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Categoria   string `json:"categoria"`
}

func (m Meta) clean() (Meta, error) {
	m.Nombre = strings.TrimSpace(m.Nombre)
	m.Descripcion = strings.TrimSpace(m.Descripcion)
	if m.Nombre == "" {
		return m, invalid("El nombre del proyecto es obligatorio", nil)
	}
	m.Categoria = NormalizeCategory(m.Categoria)
	return m, nil
}

// Create создаёт проект. С PlantillaID документ копируется из активного шаблона,
// иначе берётся пустой документ по умолчанию.
func (s *ProjectService) Create(ctx context.Context, in CreateInput) (*models.Project, Notice, error) {
	meta, err := Meta{Nombre: in.Nombre, Descripcion: in.Descripcion, Categoria: in.Categoria}.clean()
	if err != nil {
		return nil, NoticeFor(err), err
	}

	contenido, err := encodeDocument(layout.NewDocument())
	if err != nil {
		return nil, NoticeFor(err), err
	}
	plantillaID := strings.TrimSpace(in.PlantillaID)
	if plantillaID != "" {
		tpl, err := s.repo.GetTemplate(ctx, plantillaID, true)
		if err != nil {
			err = storageError("get template", err)
			return nil, NoticeFor(err), err
		}
		contenido = tpl.Contenido
	}

	p := &models.Project{
		Nombre:      meta.Nombre,
		Descripcion: meta.Descripcion,
		Categoria:   meta.Categoria,
		PlantillaID: plantillaID,
		Contenido:   contenido,
	}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		err = storageError("create project", err)
		return nil, NoticeFor(err), err
	}
	log.Printf("[PROJECTS] Project created: %s", p.ID)
	return p, success("Proyecto creado correctamente"), nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, storageError("get project", err)
	}
	return p, nil
}

// LoadDocument возвращает документ проекта. Повреждённый JSON в базе
// логируется и заменяется пустым документом.
func (s *ProjectService) LoadDocument(ctx context.Context, id string) (layout.Document, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return layout.Document{}, err
	}
	return decodeStored(p.ID, p.Contenido), nil
}

// SaveDocument проверяет документ целиком и сохраняет его. Пустой id создаёт проект,
// тогда meta обязательна. Первый невалидный элемент отклоняет сохранение.
func (s *ProjectService) SaveDocument(ctx context.Context, id string, raw []byte, meta *Meta) (string, Notice, error) {
	doc, err := s.validator.Document(raw)
	if err != nil {
		err = invalid(documentMessage(err), err)
		return "", NoticeFor(err), err
	}
	contenido, err := encodeDocument(doc)
	if err != nil {
		return "", NoticeFor(err), err
	}

	if meta != nil {
		cleaned, err := meta.clean()
		if err != nil {
			return "", NoticeFor(err), err
		}
		meta = &cleaned
	}

	if id == "" {
		if meta == nil {
			err := invalid("El nombre del proyecto es obligatorio", nil)
			return "", NoticeFor(err), err
		}
		p := &models.Project{Nombre: meta.Nombre, Descripcion: meta.Descripcion, Categoria: meta.Categoria, Contenido: contenido}
		if err := s.repo.CreateProject(ctx, p); err != nil {
			err = storageError("create project", err)
			return "", NoticeFor(err), err
		}
		log.Printf("[PROJECTS] Project created from document: %s (%d elements)", p.ID, len(doc.Elementos))
		return p.ID, success("Proyecto creado correctamente"), nil
	}

	if meta == nil {
		if err := s.repo.ReplaceProjectContent(ctx, id, contenido); err != nil {
			err = storageError("save project", err)
			return "", NoticeFor(err), err
		}
	} else {
		p := &models.Project{ID: id, Nombre: meta.Nombre, Descripcion: meta.Descripcion, Categoria: meta.Categoria, Contenido: contenido}
		if err := s.repo.SaveProject(ctx, p); err != nil {
			err = storageError("save project", err)
			return "", NoticeFor(err), err
		}
	}
	log.Printf("[PROJECTS] Project saved: %s (%d elements)", id, len(doc.Elementos))
	return id, success("Proyecto actualizado correctamente"), nil
}

// Update меняет только метаданные проекта.
func (s *ProjectService) Update(ctx context.Context, id string, meta Meta) (Notice, error) {
	meta, err := meta.clean()
	if err != nil {
		return NoticeFor(err), err
	}
	if err := s.repo.UpdateProjectMeta(ctx, id, meta.Nombre, meta.Descripcion, meta.Categoria); err != nil {
		err = storageError("update project", err)
		return NoticeFor(err), err
	}
	return success("Proyecto actualizado correctamente"), nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) (Notice, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return NoticeFor(err), err
	}
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		err = storageError("delete project", err)
		return NoticeFor(err), err
	}
	log.Printf("[PROJECTS] Project deleted: %s", id)
	return success(`Proyecto "` + p.Nombre + `" eliminado correctamente`), nil
}

// Recent возвращает последние изменённые проекты; limit <= 0 - все.
func (s *ProjectService) Recent(ctx context.Context, limit int) ([]models.Project, error) {
	list, err := s.repo.ListProjects(ctx, limit)
	if err != nil {
		return nil, storageError("list projects", err)
	}
	return list, nil
}

func (s *ProjectService) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	counts, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, storageError("category counts", err)
	}
	return counts, nil
}

// ============================================================
// Document helpers
// ============================================================

func encodeDocument(doc layout.Document) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", invalid("Error al procesar los datos del proyecto", err)
	}
	return string(b), nil
}

// decodeStored разбирает сохранённый документ; при ошибке возвращает пустой.
func decodeStored(id, contenido string) layout.Document {
	doc := layout.NewDocument()
	if err := json.Unmarshal([]byte(contenido), &doc); err != nil {
		log.Printf("[PROJECTS] Malformed document in %s: %v", id, err)
		return layout.NewDocument()
	}
	return doc
}

func documentMessage(err error) string {
	var elErr *validator.ElementError
	if errors.As(err, &elErr) {
		return "Uno o más elementos del proyecto no son válidos"
	}
	return "Error al procesar los datos del proyecto"
}
