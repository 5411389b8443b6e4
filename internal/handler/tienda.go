package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gymdesk/internal/dto"
	"gymdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const planesCacheKey = "tienda:planes"

// TiendaHandler serves the store: the plan catalog and the purchase.
// The catalog is cached in Redis when a client is configured.
type TiendaHandler struct {
	svc service.ComercioService
	rdb *redis.Client
	ttl time.Duration
}

func NewTiendaHandler(svc service.ComercioService, rdb *redis.Client, ttl time.Duration) *TiendaHandler {
	return &TiendaHandler{svc: svc, rdb: rdb, ttl: ttl}
}

// Planes godoc
// @Summary Planes a la venta
// @Tags tienda
// @Produce json
// @Success 200 {array} dto.TipoMembresiaResponse
// @Router /v1/tienda/planes [get]
func (h *TiendaHandler) Planes(c *gin.Context) {
	ctx := c.Request.Context()

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, planesCacheKey).Bytes(); err == nil {
			var resp []dto.TipoMembresiaResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	resp, err := h.svc.PlanesDisponibles(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), planesCacheKey, b, h.ttl).Err()
		}
	}
	c.JSON(http.StatusOK, resp)
}

// InvalidarPlanes drops the cached catalog; plan-type writes call it.
func (h *TiendaHandler) InvalidarPlanes(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	if err := h.rdb.Del(ctx, planesCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("tienda: no se pudo invalidar el catalogo")
	}
}

// Comprar godoc
// @Summary Comprar la primera membresia (cuenta default)
// @Tags tienda
// @Accept json
// @Produce json
// @Param body body dto.ComprarMembresiaRequest true "Plan y datos personales"
// @Success 201 {object} dto.CompraResponse
// @Failure 409 {object} apierror.APIError
// @Failure 500 {object} apierror.APIError
// @Router /v1/tienda/comprar [post]
func (h *TiendaHandler) Comprar(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	var req dto.ComprarMembresiaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ComprarMembresia(c.Request.Context(), who, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
