package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"eco-editor/internal/projects/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Responses
// ============================================================

// fail переводит ошибку сервиса в HTTP-ответ. Подробности сбоев хранилища не отдаются.
func fail(c fiber.Ctx, err error, notice service.Notice) error {
	if notice.IsZero() {
		notice = service.NoticeFor(err)
	}

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": vErr.Message, "aviso": notice})
	case errors.Is(err, service.ErrValidation):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "aviso": notice})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "not found", "aviso": notice})
	default:
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error", "aviso": notice})
	}
}

// decode разбирает тело запроса в v; ошибка уже несёт статус 400.
func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(http.StatusBadRequest, "empty body")
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid json")
	}
	return nil
}

func queryFloat(c fiber.Ctx, key string) float64 {
	f, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func html(c fiber.Ctx, markup string) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(markup)
}
