package service

import "strings"

// ============================================================
// Categories
// ============================================================

const (
	CategoryAll     = "todas"
	CategoryDefault = "general"
)

// Category - ключ и подпись категории.
type Category struct {
	Key   string `json:"clave"`
	Label string `json:"nombre"`
}

// Categories - фиксированный список категорий в порядке показа.
// "todas" используется только как фильтр.
var Categories = []Category{
	{CategoryAll, "Todas las plantillas"},
	{"conservacion", "Conservación"},
	{"energia", "Energías Renovables"},
	{"educacion", "Educación Ambiental"},
	{"ambiente", "Biodiversidad"},
	{CategoryDefault, "General"},
}

// CategoryLabel возвращает подпись категории или сам ключ.
func CategoryLabel(key string) string {
	for _, c := range Categories {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}

// NormalizeCategory приводит категорию записи к известному ключу.
// Неизвестные значения и "todas" заменяются на "general".
func NormalizeCategory(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == CategoryAll {
		return CategoryDefault
	}
	for _, c := range Categories {
		if c.Key == key {
			return key
		}
	}
	return CategoryDefault
}

// filterCategory переводит параметр фильтра в условие запроса; "" - без фильтра.
func filterCategory(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == CategoryAll {
		return ""
	}
	return key
}
