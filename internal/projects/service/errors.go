package service

import (
	"errors"
	"fmt"
	"log"

	"eco-editor/internal/projects/repository"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage failure")
	ErrExportUnsupported = errors.New("export format not supported")
)

// ValidationError несёт сообщение для пользователя.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

func invalid(message string, err error) error {
	return &ValidationError{Message: message, Err: err}
}

// storageError логирует сбой хранилища и скрывает подробности от вызывающего.
// repository.ErrNotFound превращается в ErrNotFound.
func storageError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	log.Printf("[PROJECTS] %s: %v", op, err)
	return fmt.Errorf("%s: %w", op, ErrStorage)
}
