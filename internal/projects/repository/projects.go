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
// Projects
// ============================================================

const projectColumns = `id, nombre, descripcion, categoria, plantilla_id, contenido, fecha_creacion, fecha_modificacion`

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p                 models.Project
		created, modified string
	)
	if err := row.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Categoria, &p.PlantillaID, &p.Contenido, &created, &modified); err != nil {
		return nil, err
	}
	p.FechaCreacion = parseTime(created)
	p.FechaModificacion = parseTime(modified)
	return &p, nil
}

// CreateProject вставляет проект. Пустой ID заменяется новым uuid, даты выставляются здесь.
func (r *Repository) CreateProject(ctx context.Context, p *models.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := r.now()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO proyectos (`+projectColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, p.ID, p.Nombre, p.Descripcion, p.Categoria, p.PlantillaID, p.Contenido, now, now)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.FechaCreacion = parseTime(now)
	p.FechaModificacion = p.FechaCreacion
	return nil
}

func (r *Repository) GetProject(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM proyectos WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListProjects возвращает проекты, последние изменённые первыми. limit <= 0 - без ограничения.
func (r *Repository) ListProjects(ctx context.Context, limit int) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM proyectos ORDER BY fecha_modificacion DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateProjectMeta меняет название, описание и категорию.
func (r *Repository) UpdateProjectMeta(ctx context.Context, id, nombre, descripcion, categoria string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE proyectos SET nombre = ?, descripcion = ?, categoria = ?, fecha_modificacion = ?
        WHERE id = ?
    `, nombre, descripcion, categoria, r.now(), id)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return affected(res)
}

// SaveProject заменяет строку проекта целиком, кроме даты создания и шаблона.
func (r *Repository) SaveProject(ctx context.Context, p *models.Project) error {
	now := r.now()
	res, err := r.db.ExecContext(ctx, `
        UPDATE proyectos SET nombre = ?, descripcion = ?, categoria = ?, contenido = ?, fecha_modificacion = ?
        WHERE id = ?
    `, p.Nombre, p.Descripcion, p.Categoria, p.Contenido, now, p.ID)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if err := affected(res); err != nil {
		return err
	}
	p.FechaModificacion = parseTime(now)
	return nil
}

// ReplaceProjectContent заменяет только документ проекта.
func (r *Repository) ReplaceProjectContent(ctx context.Context, id, contenido string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE proyectos SET contenido = ?, fecha_modificacion = ? WHERE id = ?
    `, contenido, r.now(), id)
	if err != nil {
		return fmt.Errorf("replace content: %w", err)
	}
	return affected(res)
}

func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM proyectos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return affected(res)
}

// CategoryCounts считает проекты по категориям, по убыванию числа.
func (r *Repository) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT categoria, COUNT(*) AS total FROM proyectos
        GROUP BY categoria ORDER BY total DESC, categoria ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	out := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Categoria, &c.Total); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
