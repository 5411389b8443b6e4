package handler

import (
	"net/http"
	"strconv"

	"gymdesk/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	qrSizeDefault = 256
	qrSizeMax     = 1024
)

// PerfilHandler serves the member-facing pages: browsing branches and
// classes, the own profile and the license QR.
type PerfilHandler struct{ svc service.PerfilService }

func NewPerfilHandler(svc service.PerfilService) *PerfilHandler {
	return &PerfilHandler{svc: svc}
}

// Sucursales GET /v1/explorar/sucursales
func (h *PerfilHandler) Sucursales(c *gin.Context) {
	resp, err := h.svc.Sucursales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Clases GET /v1/explorar/sucursales/:id/clases
func (h *PerfilHandler) Clases(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ClasesDeSucursal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MiPerfil GET /v1/perfil
func (h *PerfilHandler) MiPerfil(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	resp, err := h.svc.MiPerfil(c.Request.Context(), who)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LicenciaQR GET /v1/perfil/licencia/qr?size=256
func (h *PerfilHandler) LicenciaQR(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(qrSizeDefault)))
	if err != nil || size <= 0 || size > qrSizeMax {
		size = qrSizeDefault
	}
	png, err := h.svc.LicenciaQR(c.Request.Context(), who, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
