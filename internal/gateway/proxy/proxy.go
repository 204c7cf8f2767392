package proxy

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Proxy Handler
// ============================================================

// hopHeaders не передаются между клиентом и сервисом.
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
	"Content-Length":      true,
}

// Proxy пересылает запросы шлюза во внутренние сервисы.
// Редиректы сервисов отдаются клиенту как есть.
type Proxy struct {
	client *http.Client
	prefix string
}

// New создаёт прокси; prefix отрезается от пути перед пересылкой.
func New(prefix string, timeout time.Duration) *Proxy {
	return &Proxy{
		prefix: prefix,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// To пересылает запрос в сервис baseURL с тем же путём (без префикса) и query.
func (p *Proxy) To(baseURL string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return p.Forward(c, baseURL+p.Target(c))
	}
}

// Target возвращает путь и query запроса без префикса шлюза.
func (p *Proxy) Target(c fiber.Ctx) string {
	path := strings.TrimPrefix(c.Path(), p.prefix)
	if path == "" {
		path = "/"
	}
	if qs := c.Request().URI().QueryString(); len(qs) > 0 {
		path += "?" + string(qs)
	}
	return path
}

// Forward проксирует запрос по переданному URL.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	log.Printf("[PROXY] %s %s -> %s (%d bytes)", c.Method(), c.Path(), targetURL, len(c.Body()))

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	for _, key := range []string{"Content-Type", "Accept", "Accept-Language"} {
		if v := c.Get(key); v != "" {
			req.Header.Set(key, v)
		}
	}
	req.Header.Set("X-Forwarded-For", c.IP())

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[PROXY] Error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	header := &c.Response().Header
	for key, values := range resp.Header {
		if hopHeaders[key] {
			continue
		}
		header.Del(key)
		for _, v := range values {
			header.Add(key, v)
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
