package handler

import (
	"errors"
	"net/http"

	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type ClasesHandler struct{ svc service.ClaseService }

func NewClasesHandler(svc service.ClaseService) *ClasesHandler {
	return &ClasesHandler{svc: svc}
}

// Listar GET /v1/clases: branch-scoped callers see their own branch only.
func (h *ClasesHandler) Listar(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), id, filtro(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClasesHandler) Obtener(c *gin.Context) {
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

// Crear POST /v1/clases
func (h *ClasesHandler) Crear(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	var req dto.ClaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), who, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar PUT /v1/clases/:id replaces the coach and member sets too.
func (h *ClasesHandler) Actualizar(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarClaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), who, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AsignarIntegrantes PUT /v1/clases/:id/integrantes
func (h *ClasesHandler) AsignarIntegrantes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.IntegrantesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarIntegrantes(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Inscribir POST /v1/clases/:id/miembros/:miembro_id (staff desk)
func (h *ClasesHandler) Inscribir(c *gin.Context) {
	claseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	miembroID, ok := parseID(c, "miembro_id")
	if !ok {
		return
	}
	resp, err := h.svc.Inscribir(c.Request.Context(), claseID, miembroID)
	h.responderInscripcion(c, resp, err)
}

// InscribirCuenta POST /v1/clases/:id/inscripcion (the member themself)
func (h *ClasesHandler) InscribirCuenta(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	claseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.InscribirCuenta(c.Request.Context(), who, claseID)
	h.responderInscripcion(c, resp, err)
}

func (h *ClasesHandler) responderInscripcion(c *gin.Context, resp *dto.InscripcionResponse, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, resp)
	case errors.Is(err, gymerr.ErrAlreadyEnrolled):
		// informational: the member is in the class either way
		c.JSON(http.StatusOK, dto.MensajeResponse{Mensaje: err.Error()})
	default:
		respondError(c, err)
	}
}

func (h *ClasesHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClasesHandler) Reactivar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
