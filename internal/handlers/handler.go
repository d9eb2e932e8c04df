package handlers

import (
	"errors"

	"go.uber.org/zap"

	"hesabyar/internal/store"
)

// Validation errors shared by the user-facing handlers.
var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrNotFound          = errors.New("record not found")
)

// Handler holds what every route needs: the owned state container and
// a logger.
type Handler struct {
	container *store.Container
	logger    *zap.Logger
}

// New creates the handler set around a state container.
func New(container *store.Container, logger *zap.Logger) *Handler {
	return &Handler{container: container, logger: logger}
}
