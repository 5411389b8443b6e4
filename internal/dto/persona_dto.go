package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FormatoFecha is the wire layout of calendar dates.
const FormatoFecha = "2006-01-02"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type PersonaRequest struct {
	Nombre    string     `json:"nombre"     validate:"required,min=2,max=100"`
	Apellido  string     `json:"apellido"   validate:"required,min=2,max=100"`
	DNI       string     `json:"dni"        validate:"required,number,min=6,max=12"`
	Telefono  string     `json:"telefono"   validate:"max=30"`
	Email     string     `json:"email"      validate:"omitempty,email"`
	UsuarioID *uuid.UUID `json:"usuario_id"`
}

type MiembroRequest struct {
	PersonaRequest
	FechaNacimiento string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Direccion       string `json:"direccion"        validate:"max=200"`
	Genero          string `json:"genero"           validate:"max=20"`
	Notas           string `json:"notas"            validate:"max=1000"`
}

type ActualizarMiembroRequest struct {
	MiembroRequest
	Version int `json:"version" validate:"required,min=1"`
}

// HorarioRequest is a weekly slot; times are "HH:MM" in 24h format.
type HorarioRequest struct {
	DiaSemana int    `json:"dia_semana" validate:"min=0,max=6"`
	Inicio    string `json:"inicio"     validate:"required,datetime=15:04"`
	Fin       string `json:"fin"        validate:"required,datetime=15:04"`
}

type ProfesorRequest struct {
	PersonaRequest
	SucursalID      uuid.UUID        `json:"sucursal_id"      validate:"required"`
	Estado          string           `json:"estado"           validate:"max=50"`
	EspecialidadIDs []uuid.UUID      `json:"especialidad_ids"`
	Horarios        []HorarioRequest `json:"horarios"         validate:"dive"`
}

type ActualizarProfesorRequest struct {
	ProfesorRequest
	Version int `json:"version" validate:"required,min=1"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type HorarioResponse struct {
	DiaSemana int    `json:"dia_semana"`
	Dia       string `json:"dia"`
	Inicio    string `json:"inicio"`
	Fin       string `json:"fin"`
}

type LicenciaResponse struct {
	ID           uuid.UUID `json:"id"`
	CodigoBarras string    `json:"codigo_barras"`
	Desde        string    `json:"desde"`
	Hasta        string    `json:"hasta"`
	Activo       bool      `json:"activo"`
}

type MembresiaResponse struct {
	ID           uuid.UUID       `json:"id"`
	Plan         RefResponse     `json:"plan"`
	Estado       string          `json:"estado"`
	PrecioPagado decimal.Decimal `json:"precio_pagado"`
	Deuda        decimal.Decimal `json:"deuda"`
	Descuento    decimal.Decimal `json:"descuento"`
	Desde        string          `json:"desde"`
	Hasta        string          `json:"hasta"`
	Activo       bool            `json:"activo"`
}

type MiembroResponse struct {
	ID              uuid.UUID          `json:"id"`
	Nombre          string             `json:"nombre"`
	Apellido        string             `json:"apellido"`
	DNI             string             `json:"dni"`
	Telefono        string             `json:"telefono"`
	Email           string             `json:"email"`
	UsuarioID       *uuid.UUID         `json:"usuario_id"`
	FechaNacimiento string             `json:"fecha_nacimiento,omitempty"`
	Direccion       string             `json:"direccion"`
	Genero          string             `json:"genero"`
	Notas           string             `json:"notas"`
	Activo          bool               `json:"activo"`
	Version         int                `json:"version"`
	Licencia        *LicenciaResponse  `json:"licencia,omitempty"`
	Membresia       *MembresiaResponse `json:"membresia,omitempty"`
}

type ProfesorResponse struct {
	ID             uuid.UUID         `json:"id"`
	Nombre         string            `json:"nombre"`
	Apellido       string            `json:"apellido"`
	DNI            string            `json:"dni"`
	Telefono       string            `json:"telefono"`
	Email          string            `json:"email"`
	UsuarioID      *uuid.UUID        `json:"usuario_id"`
	SucursalID     uuid.UUID         `json:"sucursal_id"`
	Estado         string            `json:"estado"`
	Activo         bool              `json:"activo"`
	Version        int               `json:"version"`
	Especialidades []RefResponse     `json:"especialidades"`
	Horarios       []HorarioResponse `json:"horarios"`
}

type PagoResponse struct {
	ID         uuid.UUID       `json:"id"`
	MiembroID  uuid.UUID       `json:"miembro_id"`
	Miembro    string          `json:"miembro,omitempty"`
	Fecha      time.Time       `json:"fecha"`
	Monto      decimal.Decimal `json:"monto"`
	MetodoPago string          `json:"metodo_pago"`
}
