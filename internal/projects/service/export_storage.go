package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ============================================================
// Export Storage
// ============================================================

// ExportStorage хранит готовые файлы экспорта: <root>/<projectID>/<slug>.png.
type ExportStorage struct {
	root string
}

func NewExportStorage(root string) *ExportStorage {
	return &ExportStorage{root: root}
}

func (s *ExportStorage) ProjectDir(projectID string) string {
	return filepath.Join(s.root, filepath.Base(projectID))
}

func (s *ExportStorage) PNGPath(projectID, nombre string) string {
	return filepath.Join(s.ProjectDir(projectID), Slug(nombre)+".png")
}

func (s *ExportStorage) EnsureDir(projectID string) error {
	if err := os.MkdirAll(s.ProjectDir(projectID), 0o755); err != nil {
		return fmt.Errorf("mkdir export dir: %w", err)
	}
	return nil
}

func (s *ExportStorage) SaveFile(projectID, target string, data []byte) error {
	if err := s.EnsureDir(projectID); err != nil {
		return err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// Fresh сообщает, что файл существует и не старше since.
func (s *ExportStorage) Fresh(path string, since time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.ModTime().Before(since)
}

// Remove удаляет все файлы экспорта проекта.
func (s *ExportStorage) Remove(projectID string) error {
	return os.RemoveAll(s.ProjectDir(projectID))
}

// Slug превращает название в имя файла: латиница без диакритики, цифры и дефисы.
func Slug(name string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, name)
	if err != nil {
		plain = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "proyecto"
	}
	return slug
}
