package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eco-editor/internal/projects/models"

	"github.com/google/uuid"
)

// ============================================================
// Templates
// ============================================================

const templateColumns = `id, nombre, descripcion, categoria, fondo, preview, contenido, activo, fecha_creacion, fecha_modificacion`

func scanTemplate(row rowScanner) (*models.Template, error) {
	var (
		t                 models.Template
		created, modified string
	)
	if err := row.Scan(&t.ID, &t.Nombre, &t.Descripcion, &t.Categoria, &t.Fondo, &t.Preview, &t.Contenido, &t.Activo, &created, &modified); err != nil {
		return nil, err
	}
	t.FechaCreacion = parseTime(created)
	t.FechaModificacion = parseTime(modified)
	return &t, nil
}

func (r *Repository) CreateTemplate(ctx context.Context, t *models.Template) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := r.now()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO plantillas (`+templateColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, t.ID, t.Nombre, t.Descripcion, t.Categoria, t.Fondo, t.Preview, t.Contenido, t.Activo, now, now)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	t.FechaCreacion = parseTime(now)
	t.FechaModificacion = t.FechaCreacion
	return nil
}

// SaveTemplate заменяет редактируемые поля шаблона. Флаг activo не трогается.
func (r *Repository) SaveTemplate(ctx context.Context, t *models.Template) error {
	now := r.now()
	res, err := r.db.ExecContext(ctx, `
        UPDATE plantillas SET nombre = ?, descripcion = ?, categoria = ?, fondo = ?, contenido = ?, fecha_modificacion = ?
        WHERE id = ?
    `, t.Nombre, t.Descripcion, t.Categoria, t.Fondo, t.Contenido, now, t.ID)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	if err := affected(res); err != nil {
		return err
	}
	t.FechaModificacion = parseTime(now)
	return nil
}

// GetTemplate ищет шаблон; с activeOnly неактивные считаются отсутствующими.
func (r *Repository) GetTemplate(ctx context.Context, id string, activeOnly bool) (*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM plantillas WHERE id = ?`
	if activeOnly {
		query += ` AND activo = 1`
	}
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListTemplates возвращает шаблоны по имени. Пустая категория - без фильтра.
func (r *Repository) ListTemplates(ctx context.Context, categoria string, includeInactive bool) ([]models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM plantillas WHERE 1 = 1`
	args := []any{}
	if !includeInactive {
		query += ` AND activo = 1`
	}
	if categoria != "" {
		query += ` AND categoria = ?`
		args = append(args, categoria)
	}
	query += ` ORDER BY nombre ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	out := []models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repository) SetTemplateActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE plantillas SET activo = ?, fecha_modificacion = ? WHERE id = ?
    `, active, r.now(), id)
	if err != nil {
		return fmt.Errorf("set template active: %w", err)
	}
	return affected(res)
}

func (r *Repository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plantillas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return affected(res)
}

func (r *Repository) countTemplates(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plantillas`).Scan(&n)
	return n, err
}
