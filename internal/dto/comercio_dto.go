package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// ComprarMembresiaRequest holds the personal details a default account
// submits when buying its first plan. Name and email come from the account.
type ComprarMembresiaRequest struct {
	TipoMembresiaID uuid.UUID `json:"tipo_membresia_id" validate:"required"`
	DNI             string    `json:"dni"               validate:"required,number,min=6,max=12"`
	FechaNacimiento string    `json:"fecha_nacimiento"  validate:"required,datetime=2006-01-02"`
	Genero          string    `json:"genero"            validate:"max=20"`
	Telefono        string    `json:"telefono"          validate:"max=30"`
	Direccion       string    `json:"direccion"         validate:"max=200"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CompraResponse struct {
	Miembro MiembroResponse `json:"miembro"`
	Pago    PagoResponse    `json:"pago"`
	// Sesion carries fresh tokens with the member role.
	Sesion *LoginResponse `json:"sesion,omitempty"`
}

type ReporteAsistenciaResponse struct {
	Desde string               `json:"desde"`
	Hasta string               `json:"hasta"`
	Total int                  `json:"total"`
	Items []AsistenciaResponse `json:"items"`
}

type DeudorResponse struct {
	MiembroID uuid.UUID       `json:"miembro_id"`
	Miembro   string          `json:"miembro"`
	DNI       string          `json:"dni"`
	Plan      string          `json:"plan"`
	Deuda     decimal.Decimal `json:"deuda"`
}

type ReporteDeudoresResponse struct {
	Items []DeudorResponse `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

type ReporteIngresosResponse struct {
	Desde string          `json:"desde"`
	Hasta string          `json:"hasta"`
	Items []PagoResponse  `json:"items"`
	Total decimal.Decimal `json:"total"`
}
