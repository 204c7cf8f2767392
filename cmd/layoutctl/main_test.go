package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eco-editor/internal/layout/validator"

	"github.com/tdewolff/test"
)

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	test.Error(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeDoc(t, `{"elementos": [{"tipo": "texto", "contenido": "Hola", "estilo": "", "posicion": {"x": 0, "y": 0}, "zIndex": 0}]}`)
	doc, err := load(path, newValidator("", 0))
	test.Error(t, err)
	test.T(t, len(doc.Elementos), 1)

	path = writeDoc(t, `{"elementos": [{"tipo": "imagen", "url": "https://evil.example/a.png", "estilo": "", "posicion": {"x": 0, "y": 0}, "zIndex": 0}]}`)
	_, err = load(path, newValidator("", 0))
	var elErr *validator.ElementError
	test.That(t, errors.As(err, &elErr))
	test.T(t, elErr.Index, 0)

	_, err = load(path, newValidator("evil.example", 0))
	test.Error(t, err)
}

func TestPNGCommand(t *testing.T) {
	in := writeDoc(t, `{"configuracion": {"fondo": "#ffffff", "ancho": 50, "alto": 40}}`)
	out := filepath.Join(t.TempDir(), "out.png")

	cmd := &PNG{Scale: 2, Output: out, Input: in}
	test.Error(t, cmd.Run())
	b, err := os.ReadFile(out)
	test.Error(t, err)
	test.That(t, strings.HasPrefix(string(b), "\x89PNG"))

	cmd.Scale = 10
	test.That(t, cmd.Run() != nil)
}

func TestHTMLCommand(t *testing.T) {
	in := writeDoc(t, `{"elementos": []}`)
	out := filepath.Join(t.TempDir(), "out.html")

	test.Error(t, (&HTML{Width: 200, Height: 300, Output: out, Input: in}).Run())
	b, err := os.ReadFile(out)
	test.Error(t, err)
	test.That(t, strings.HasPrefix(string(b), `<div class="miniatura" style="width:200px;height:300px;`))
}
