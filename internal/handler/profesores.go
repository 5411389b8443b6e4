package handler

import (
	"net/http"

	"gymdesk/internal/apierror"
	"gymdesk/internal/dto"
	"gymdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfesoresHandler struct{ svc service.ProfesorService }

func NewProfesoresHandler(svc service.ProfesorService) *ProfesoresHandler {
	return &ProfesoresHandler{svc: svc}
}

// Listar GET /v1/profesores?estado=&sucursal_id=
func (h *ProfesoresHandler) Listar(c *gin.Context) {
	var sucursalID *uuid.UUID
	if raw := c.Query("sucursal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("sucursal_id invalido"))
			return
		}
		sucursalID = &id
	}
	resp, err := h.svc.Listar(c.Request.Context(), filtro(c), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfesoresHandler) Obtener(c *gin.Context) {
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

func (h *ProfesoresHandler) Crear(c *gin.Context) {
	var req dto.ProfesorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProfesoresHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProfesorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfesoresHandler) Desactivar(c *gin.Context) {
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

func (h *ProfesoresHandler) Reactivar(c *gin.Context) {
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
