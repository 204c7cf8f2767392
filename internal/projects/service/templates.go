package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	layout "eco-editor/internal/layout/models"
	"eco-editor/internal/layout/validator"
	"eco-editor/internal/projects/models"
	"eco-editor/internal/projects/repository"
)

// ============================================================
// Template Service
// ============================================================

type TemplateService struct {
	repo      *repository.Repository
	validator *validator.Validator
}

func NewTemplateService(repo *repository.Repository, v *validator.Validator) *TemplateService {
	return &TemplateService{repo: repo, validator: v}
}

// TemplateInput - данные формы шаблона. Documento - JSON документа макета.
type TemplateInput struct {
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Categoria   string          `json:"categoria"`
	Fondo       string          `json:"fondo"`
	Documento   json.RawMessage `json:"documento"`
}

// List возвращает активные шаблоны по имени; "todas" или пустая категория - без фильтра.
func (s *TemplateService) List(ctx context.Context, categoria string) ([]models.Template, error) {
	list, err := s.repo.ListTemplates(ctx, filterCategory(categoria), false)
	if err != nil {
		return nil, storageError("list templates", err)
	}
	return list, nil
}

// ListAll включает неактивные шаблоны.
func (s *TemplateService) ListAll(ctx context.Context, categoria string) ([]models.Template, error) {
	list, err := s.repo.ListTemplates(ctx, filterCategory(categoria), true)
	if err != nil {
		return nil, storageError("list templates", err)
	}
	return list, nil
}

// Get ищет шаблон; с activeOnly неактивный шаблон не находится.
func (s *TemplateService) Get(ctx context.Context, id string, activeOnly bool) (*models.Template, error) {
	t, err := s.repo.GetTemplate(ctx, id, activeOnly)
	if err != nil {
		return nil, storageError("get template", err)
	}
	return t, nil
}

// Document возвращает документ активного шаблона.
func (s *TemplateService) Document(ctx context.Context, id string) (layout.Document, error) {
	t, err := s.Get(ctx, id, true)
	if err != nil {
		return layout.Document{}, err
	}
	return decodeStored(t.ID, t.Contenido), nil
}

// Save создаёт (пустой id) или обновляет шаблон. Каждый элемент проверяется,
// неизвестная категория заменяется на "general".
func (s *TemplateService) Save(ctx context.Context, id string, in TemplateInput) (string, Notice, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		err := invalid("El nombre de la plantilla es obligatorio", nil)
		return "", NoticeFor(err), err
	}

	raw := []byte(in.Documento)
	if len(strings.TrimSpace(string(raw))) == 0 {
		raw = []byte(`{"elementos":[]}`)
	}
	doc, err := s.validator.Document(raw)
	if err != nil {
		err = invalid("Uno o más elementos no son válidos", err)
		return "", NoticeFor(err), err
	}

	fondo := strings.TrimSpace(in.Fondo)
	switch {
	case fondo == "":
		fondo = doc.Configuracion.Fondo
	case !validator.Color(fondo):
		err := invalid("El color de fondo no es válido", nil)
		return "", NoticeFor(err), err
	default:
		doc.Configuracion.Fondo = fondo
	}

	contenido, err := encodeDocument(doc)
	if err != nil {
		return "", NoticeFor(err), err
	}

	t := &models.Template{
		ID:          id,
		Nombre:      nombre,
		Descripcion: strings.TrimSpace(in.Descripcion),
		Categoria:   NormalizeCategory(in.Categoria),
		Fondo:       fondo,
		Contenido:   contenido,
		Activo:      true,
	}

	if id == "" {
		if err := s.repo.CreateTemplate(ctx, t); err != nil {
			err = storageError("create template", err)
			return "", NoticeFor(err), err
		}
		log.Printf("[PROJECTS] Template created: %s", t.ID)
		return t.ID, success("Plantilla creada correctamente"), nil
	}

	if err := s.repo.SaveTemplate(ctx, t); err != nil {
		err = storageError("save template", err)
		return "", NoticeFor(err), err
	}
	log.Printf("[PROJECTS] Template saved: %s", t.ID)
	return t.ID, success("Plantilla actualizada correctamente"), nil
}

// ToggleActive включает или выключает шаблон. Выключенный шаблон скрыт из каталога.
func (s *TemplateService) ToggleActive(ctx context.Context, id string, active bool) (Notice, error) {
	if err := s.repo.SetTemplateActive(ctx, id, active); err != nil {
		err = storageError("set template active", err)
		return NoticeFor(err), err
	}
	return success("Estado de la plantilla actualizado"), nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) (Notice, error) {
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		err = storageError("delete template", err)
		return NoticeFor(err), err
	}
	log.Printf("[PROJECTS] Template deleted: %s", id)
	return success("Plantilla eliminada correctamente"), nil
}

// FromProject сохраняет документ проекта как новый шаблон.
// Пустое имя заменяется именем проекта, пустая категория - категорией проекта.
func (s *TemplateService) FromProject(ctx context.Context, projectID, nombre, categoria string) (string, Notice, error) {
	p, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		err = storageError("get project", err)
		return "", NoticeFor(err), err
	}
	if strings.TrimSpace(nombre) == "" {
		nombre = p.Nombre
	}
	if strings.TrimSpace(categoria) == "" {
		categoria = p.Categoria
	}

	doc := decodeStored(p.ID, p.Contenido)
	raw, err := json.Marshal(doc)
	if err != nil {
		err = invalid("Error al procesar los datos del proyecto", err)
		return "", NoticeFor(err), err
	}
	return s.Save(ctx, "", TemplateInput{
		Nombre:      nombre,
		Descripcion: p.Descripcion,
		Categoria:   categoria,
		Documento:   raw,
	})
}
