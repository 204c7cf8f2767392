package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	DBPath         string
	MigrationsPath string
	ExportDir      string
	ExporterURL    string
	ProjectsURL    string

	AllowedImageHosts []string
	MaxTextLength     int
	ExportScale       float64
	DenseZOrder       bool
}

// DefaultImageHosts - хосты, с которых разрешено вставлять изображения.
var DefaultImageHosts = []string{
	"images.unsplash.com",
	"upload.wikimedia.org",
	"cdn.pixabay.com",
	"images.pexels.com",
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		DBPath:         getEnv("DB_PATH", "data/db/editorambiental.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_init.sql"),
		ExportDir:      getEnv("EXPORT_DIR", "data/exports"),
		ExporterURL:    getEnv("EXPORTER_URL", "http://localhost:3001"),
		ProjectsURL:    getEnv("PROJECTS_URL", "http://localhost:3002"),

		AllowedImageHosts: getEnvAsList("ALLOWED_IMAGE_HOSTS", DefaultImageHosts),
		MaxTextLength:     getEnvAsInt("MAX_TEXT_LENGTH", 1000),
		ExportScale:       getEnvAsFloat("EXPORT_SCALE", 2.0),
		DenseZOrder:       getEnvAsBool("DENSE_Z_ORDER", false),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
