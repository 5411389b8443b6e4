package handler

import (
	"net/http"

	"gymdesk/internal/dto"
	"gymdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type AsistenciaHandler struct{ svc service.AsistenciaService }

func NewAsistenciaHandler(svc service.AsistenciaService) *AsistenciaHandler {
	return &AsistenciaHandler{svc: svc}
}

// Registrar godoc
// @Summary Registrar asistencia por codigo de licencia
// @Tags asistencia
// @Accept json
// @Produce json
// @Param body body dto.RegistrarAsistenciaRequest true "Licencia y clase"
// @Success 201 {object} dto.AsistenciaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/asistencias [post]
func (h *AsistenciaHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarAsistenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarAsistencia(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
