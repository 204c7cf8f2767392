package config

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_IMAGE_HOSTS", "")
	t.Setenv("EXPORT_SCALE", "")
	t.Setenv("DENSE_Z_ORDER", "")

	cfg := Load()
	test.T(t, cfg.Port, "3000")
	test.T(t, cfg.MaxTextLength, 1000)
	test.T(t, cfg.AllowedImageHosts, DefaultImageHosts)
	test.Float(t, cfg.ExportScale, 2.0)
	test.That(t, !cfg.DenseZOrder)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_IMAGE_HOSTS", " trusted-host , ,cdn.example ")
	t.Setenv("MAX_TEXT_LENGTH", "abc")
	t.Setenv("EXPORT_SCALE", "-1")
	t.Setenv("DENSE_Z_ORDER", "true")

	cfg := Load()
	test.T(t, cfg.Port, "8080")
	test.T(t, cfg.AllowedImageHosts, []string{"trusted-host", "cdn.example"})
	test.T(t, cfg.MaxTextLength, 1000)
	test.Float(t, cfg.ExportScale, 2.0)
	test.That(t, cfg.DenseZOrder)

	t.Setenv("DENSE_Z_ORDER", "maybe")
	test.That(t, !Load().DenseZOrder)
}
