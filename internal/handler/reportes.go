package handler

import (
	"net/http"
	"time"

	"gymdesk/internal/apierror"
	"gymdesk/internal/dto"
	"gymdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// rango reads ?desde=YYYY-MM-DD&hasta=YYYY-MM-DD. Both days are inclusive.
func rango(c *gin.Context) (time.Time, time.Time, bool) {
	fields := map[string]string{}
	desde, err := time.Parse(dto.FormatoFecha, c.Query("desde"))
	if err != nil {
		fields["desde"] = "fecha YYYY-MM-DD requerida"
	}
	hasta, err := time.Parse(dto.FormatoFecha, c.Query("hasta"))
	if err != nil {
		fields["hasta"] = "fecha YYYY-MM-DD requerida"
	}
	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return time.Time{}, time.Time{}, false
	}
	return desde, hasta, true
}

// Asistencias GET /v1/reportes/asistencias
func (h *ReportesHandler) Asistencias(c *gin.Context) {
	desde, hasta, ok := rango(c)
	if !ok {
		return
	}
	resp, err := h.svc.Asistencias(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deudores GET /v1/reportes/deudores
func (h *ReportesHandler) Deudores(c *gin.Context) {
	resp, err := h.svc.Deudores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ingresos GET /v1/reportes/ingresos
func (h *ReportesHandler) Ingresos(c *gin.Context) {
	desde, hasta, ok := rango(c)
	if !ok {
		return
	}
	resp, err := h.svc.Ingresos(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
