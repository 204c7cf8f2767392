package models

import "time"

// ============================================================
// Project Model
// ============================================================

// Project - сохранённый проект. Contenido хранит JSON документа макета как есть.
type Project struct {
	ID                string    `json:"id"`
	Nombre            string    `json:"nombre"`
	Descripcion       string    `json:"descripcion"`
	Categoria         string    `json:"categoria"`
	PlantillaID       string    `json:"plantilla_id,omitempty"`
	Contenido         string    `json:"-"`
	FechaCreacion     time.Time `json:"fecha_creacion"`
	FechaModificacion time.Time `json:"fecha_modificacion"`
}

// ============================================================
// Template Model
// ============================================================

type Template struct {
	ID                string    `json:"id"`
	Nombre            string    `json:"nombre"`
	Descripcion       string    `json:"descripcion"`
	Categoria         string    `json:"categoria"`
	Fondo             string    `json:"fondo"`
	Preview           string    `json:"preview,omitempty"`
	Contenido         string    `json:"-"`
	Activo            bool      `json:"activo"`
	FechaCreacion     time.Time `json:"fecha_creacion"`
	FechaModificacion time.Time `json:"fecha_modificacion"`
}

// CategoryCount - число проектов в категории.
type CategoryCount struct {
	Categoria string `json:"categoria"`
	Total     int    `json:"total"`
}
