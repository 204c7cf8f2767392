package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	layout "eco-editor/internal/layout/models"
)

// ============================================================
// Export Service
// ============================================================

type ExportFormat string

const (
	FormatImage ExportFormat = "imagen"
	FormatPDF   ExportFormat = "pdf"
	FormatHTML  ExportFormat = "html"
)

// ParseFormat разбирает формат экспорта; неизвестные значения означают "imagen".
func ParseFormat(s string) ExportFormat {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatHTML:
		return f
	default:
		return FormatImage
	}
}

// UnsupportedNotice возвращает сообщение для формата, который пока не экспортируется.
func UnsupportedNotice(format ExportFormat) (Notice, bool) {
	switch format {
	case FormatPDF:
		return info("La exportación a PDF estará disponible próximamente"), true
	case FormatHTML:
		return info("La exportación a HTML estará disponible próximamente"), true
	}
	return Notice{}, false
}

// PNGRenderer рисует документ в PNG.
type PNGRenderer interface {
	RenderPNG(ctx context.Context, doc layout.Document, scale float64) ([]byte, error)
}

// ExportResult - готовый файл или сообщение для неподдерживаемого формата.
type ExportResult struct {
	ProjectID string
	Path      string
	Filename  string
	Cached    bool
	Notice    Notice
}

type ExportService struct {
	projects *ProjectService
	renderer PNGRenderer
	storage  *ExportStorage
	scale    float64
}

func NewExportService(projects *ProjectService, renderer PNGRenderer, storage *ExportStorage, scale float64) *ExportService {
	return &ExportService{projects: projects, renderer: renderer, storage: storage, scale: scale}
}

// Export готовит файл экспорта проекта. PNG кешируется на диске, пока проект не изменён.
// Для pdf и html возвращается ErrExportUnsupported с информационным сообщением.
func (s *ExportService) Export(ctx context.Context, id string, format ExportFormat) (*ExportResult, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if notice, ok := UnsupportedNotice(format); ok {
		return &ExportResult{ProjectID: p.ID, Notice: notice}, ErrExportUnsupported
	}

	res := &ExportResult{
		ProjectID: p.ID,
		Path:      s.storage.PNGPath(p.ID, p.Nombre),
		Filename:  Slug(p.Nombre) + ".png",
	}
	if s.storage.Fresh(res.Path, p.FechaModificacion) {
		res.Cached = true
		return res, nil
	}

	doc := decodeStored(p.ID, p.Contenido)
	png, err := s.renderer.RenderPNG(ctx, doc, s.scale)
	if err != nil {
		log.Printf("[EXPORT] Render %s failed: %v", p.ID, err)
		return nil, fmt.Errorf("render: %w", ErrStorage)
	}
	if err := s.storage.SaveFile(p.ID, res.Path, png); err != nil {
		return nil, storageError("save export", err)
	}

	log.Printf("[EXPORT] Project %s exported: %s (%d bytes)", p.ID, res.Path, len(png))
	res.Notice = success("Imagen generada correctamente")
	return res, nil
}

// Forget удаляет кеш экспорта проекта.
func (s *ExportService) Forget(id string) {
	if err := s.storage.Remove(id); err != nil {
		log.Printf("[EXPORT] Remove cache %s: %v", id, err)
	}
}
