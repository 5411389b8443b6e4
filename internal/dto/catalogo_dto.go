package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────
// Updates carry the full record plus the version the client last read.

type SucursalRequest struct {
	Nombre    string `json:"nombre"    validate:"required,min=2,max=100"`
	Direccion string `json:"direccion" validate:"max=200"`
	Telefono  string `json:"telefono"  validate:"max=30"`
}

type ActualizarSucursalRequest struct {
	SucursalRequest
	Version int `json:"version" validate:"required,min=1"`
}

type ActividadRequest struct {
	Nombre          string `json:"nombre"           validate:"required,min=2,max=100"`
	Descripcion     string `json:"descripcion"      validate:"max=500"`
	DuracionMinutos int    `json:"duracion_minutos" validate:"required,min=5,max=600"`
	Dificultad      string `json:"dificultad"       validate:"omitempty,oneof=baja media alta"`
}

type ActualizarActividadRequest struct {
	ActividadRequest
	Version int `json:"version" validate:"required,min=1"`
}

type TipoMembresiaRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=100"`
	Descripcion  string          `json:"descripcion"   validate:"max=500"`
	DuracionDias int             `json:"duracion_dias" validate:"required,min=1,max=3660"`
	Precio       decimal.Decimal `json:"precio"`
}

type ActualizarTipoMembresiaRequest struct {
	TipoMembresiaRequest
	Version int `json:"version" validate:"required,min=1"`
}

type EspecialidadRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

type ActualizarEspecialidadRequest struct {
	EspecialidadRequest
	Version int `json:"version" validate:"required,min=1"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

// RefResponse names a related record.
type RefResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
}

type SucursalResponse struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	Direccion string    `json:"direccion"`
	Telefono  string    `json:"telefono"`
	Activo    bool      `json:"activo"`
	Version   int       `json:"version"`
}

type ActividadResponse struct {
	ID              uuid.UUID `json:"id"`
	Nombre          string    `json:"nombre"`
	Descripcion     string    `json:"descripcion"`
	DuracionMinutos int       `json:"duracion_minutos"`
	Dificultad      string    `json:"dificultad"`
	Activo          bool      `json:"activo"`
	Version         int       `json:"version"`
}

type TipoMembresiaResponse struct {
	ID           uuid.UUID       `json:"id"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion"`
	DuracionDias int             `json:"duracion_dias"`
	Precio       decimal.Decimal `json:"precio"`
	Activo       bool            `json:"activo"`
	Version      int             `json:"version"`
}

type EspecialidadResponse struct {
	ID      uuid.UUID `json:"id"`
	Nombre  string    `json:"nombre"`
	Activo  bool      `json:"activo"`
	Version int       `json:"version"`
}
