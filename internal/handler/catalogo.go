package handler

import (
	"context"
	"net/http"

	"gymdesk/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// registroService is the lifecycle surface shared by branches, activity
// types, plan types, specialties and members.
type registroService[C, U, R any] interface {
	Listar(ctx context.Context, filtro dto.FiltroEstado) ([]R, error)
	Obtener(ctx context.Context, id uuid.UUID) (*R, error)
	Crear(ctx context.Context, req C) (*R, error)
	Actualizar(ctx context.Context, id uuid.UUID, req U) (*R, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

// RegistroHandler serves the six lifecycle operations of one entity kind.
// C and U are the create and update bodies, R the response.
type RegistroHandler[C, U, R any] struct {
	svc registroService[C, U, R]
	// alCambiar runs after every successful write.
	alCambiar func(ctx context.Context)
}

func NewRegistroHandler[C, U, R any](svc registroService[C, U, R]) *RegistroHandler[C, U, R] {
	return &RegistroHandler[C, U, R]{svc: svc, alCambiar: func(context.Context) {}}
}

// AlCambiar registers a hook run after each create, update, deactivate or
// reactivate.
func (h *RegistroHandler[C, U, R]) AlCambiar(fn func(ctx context.Context)) *RegistroHandler[C, U, R] {
	h.alCambiar = fn
	return h
}

// Listar GET ?estado=activos|inactivos|todos
func (h *RegistroHandler[C, U, R]) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), filtro(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistroHandler[C, U, R]) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear answers 409 with reactivar_id when the key belongs to an inactive row.
func (h *RegistroHandler[C, U, R]) Crear(c *gin.Context) {
	var req C
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.alCambiar(c.Request.Context())
	c.JSON(http.StatusCreated, resp)
}

func (h *RegistroHandler[C, U, R]) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req U
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.alCambiar(c.Request.Context())
	c.JSON(http.StatusOK, resp)
}

func (h *RegistroHandler[C, U, R]) Desactivar(c *gin.Context) {
	h.cambiarEstado(c, h.svc.Desactivar)
}

func (h *RegistroHandler[C, U, R]) Reactivar(c *gin.Context) {
	h.cambiarEstado(c, h.svc.Reactivar)
}

func (h *RegistroHandler[C, U, R]) cambiarEstado(c *gin.Context, fn func(context.Context, uuid.UUID) error) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.alCambiar(c.Request.Context())
	c.Status(http.StatusNoContent)
}
