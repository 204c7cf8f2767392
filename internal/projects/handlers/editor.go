package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"eco-editor/internal/layout/editor"
	"eco-editor/internal/projects/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Editor Handler
// ============================================================

type EditorHandler struct {
	sessions *service.EditorSessions
}

func NewEditorHandler(sessions *service.EditorSessions) *EditorHandler {
	return &EditorHandler{sessions: sessions}
}

type applyRequest struct {
	Documento    json.RawMessage  `json:"documento"`
	Seleccionado *int             `json:"seleccionado"`
	Zoom         float64          `json:"zoom"`
	Comandos     []editor.Command `json:"comandos"`
}

type openRequest struct {
	ProyectoID string `json:"proyecto_id"`
}

type commandsRequest struct {
	Comandos []editor.Command `json:"comandos"`
}

// Apply применяет команды к документу из запроса и возвращает результат.
// Сервер ничего не хранит.
func (h *EditorHandler) Apply(c fiber.Ctx) error {
	var req applyRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	if len(req.Documento) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "documento required"})
	}

	selected := -1
	if req.Seleccionado != nil {
		selected = *req.Seleccionado
	}

	state, err := h.sessions.ApplyDocument(c.Context(), req.Documento, selected, req.Zoom, req.Comandos)
	if errors.Is(err, service.ErrValidation) {
		return fail(c, err, service.Notice{})
	}
	return commandResult(c, state, err)
}

// Open открывает сессию редактора для проекта.
func (h *EditorHandler) Open(c fiber.Ctx) error {
	var req openRequest
	if err := decode(c, &req); err != nil {
		return err
	}

	state, err := h.sessions.Open(c.Context(), req.ProyectoID)
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	return c.Status(http.StatusCreated).JSON(state)
}

func (h *EditorHandler) State(c fiber.Ctx) error {
	state, err := h.sessions.State(c.Params("token"))
	if err != nil {
		return fail(c, err, service.Notice{})
	}
	return c.JSON(state)
}

// Commands применяет команды к документу сессии.
func (h *EditorHandler) Commands(c fiber.Ctx) error {
	var req commandsRequest
	if err := decode(c, &req); err != nil {
		return err
	}

	state, err := h.sessions.Apply(c.Context(), c.Params("token"), req.Comandos)
	if errors.Is(err, service.ErrNotFound) {
		return fail(c, err, service.Notice{})
	}
	return commandResult(c, state, err)
}

// Save сохраняет документ сессии в проект.
func (h *EditorHandler) Save(c fiber.Ctx) error {
	notice, err := h.sessions.Save(c.Context(), c.Params("token"))
	if err != nil {
		return fail(c, err, notice)
	}
	return c.JSON(fiber.Map{"aviso": notice})
}

func (h *EditorHandler) Close(c fiber.Ctx) error {
	if !h.sessions.Close(c.Params("token")) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.SendStatus(http.StatusNoContent)
}

// commandResult отдаёт состояние. Ошибка команды не отменяет уже применённые.
func commandResult(c fiber.Ctx, state service.EditorState, err error) error {
	if err != nil {
		log.Printf("[EDITOR] Command failed: %v", err)
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  err.Error(),
			"estado": state,
		})
	}
	return c.JSON(state)
}
