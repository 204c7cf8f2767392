package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe опрашивает /health/ready всех сервисов.
// Шлюз готов, только когда готовы все.
func ReadinessProbe(upstreams map[string]string, timeout time.Duration) fiber.Handler {
	client := &http.Client{Timeout: timeout}

	return func(c fiber.Ctx) error {
		var (
			mu     sync.Mutex
			wg     sync.WaitGroup
			status = make(map[string]string, len(upstreams))
			ready  = true
			ctx    = c.Context()
		)
		for name, base := range upstreams {
			wg.Add(1)
			go func(name, base string) {
				defer wg.Done()
				state := probe(ctx, client, base+"/health/ready")

				mu.Lock()
				defer mu.Unlock()
				status[name] = state
				if state != "ready" {
					ready = false
				}
			}(name, base)
		}
		wg.Wait()

		if !ready {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "services": status})
		}
		return c.JSON(fiber.Map{"status": "ready", "services": status})
	}
}

func probe(ctx context.Context, client *http.Client, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "error"
	}
	resp, err := client.Do(req)
	if err != nil {
		return "unreachable"
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "not ready"
	}
	return "ready"
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
