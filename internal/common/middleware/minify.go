package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// ============================================================
// Minify Middleware
// ============================================================

// Minify сжимает HTML-ответы (страницы просмотра и миниатюры).
func Minify() fiber.Handler {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)

	return func(c fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		contentType := string(c.Response().Header.ContentType())
		if !strings.HasPrefix(contentType, "text/html") {
			return nil
		}

		out, err := m.Bytes("text/html", c.Response().Body())
		if err != nil {
			log.Printf("[MINIFY] skip: %v", err)
			return nil
		}
		c.Response().SetBody(out)
		return nil
	}
}
