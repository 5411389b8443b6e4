package dto

import (
	"time"

	"github.com/google/uuid"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegistroRequest is the self-service sign-up; the account starts as default.
type RegistroRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Nombre   string `json:"nombre"   validate:"required,min=2,max=100"`
	Apellido string `json:"apellido" validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type CrearUsuarioRequest struct {
	Username   string     `json:"username"    validate:"required,min=3,max=150"`
	Nombre     string     `json:"nombre"      validate:"required,min=2,max=100"`
	Apellido   string     `json:"apellido"    validate:"required,min=2,max=100"`
	Email      string     `json:"email"       validate:"required,email"`
	Password   string     `json:"password"    validate:"required,min=8"`
	Rol        string     `json:"rol"         validate:"required,oneof=superuser manager administrator coach member default"`
	SucursalID *uuid.UUID `json:"sucursal_id"`
}

type ActualizarUsuarioRequest struct {
	Version    int        `json:"version"     validate:"required,min=1"`
	Username   string     `json:"username"    validate:"required,min=3,max=150"`
	Nombre     string     `json:"nombre"      validate:"required,min=2,max=100"`
	Apellido   string     `json:"apellido"    validate:"required,min=2,max=100"`
	Email      string     `json:"email"       validate:"required,email"`
	Rol        string     `json:"rol"         validate:"required,oneof=superuser manager administrator coach member default"`
	SucursalID *uuid.UUID `json:"sucursal_id"`
	Password   string     `json:"password"    validate:"omitempty,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Nombre       string     `json:"nombre"`
	Apellido     string     `json:"apellido"`
	Email        string     `json:"email"`
	Rol          string     `json:"rol"`
	SucursalID   *uuid.UUID `json:"sucursal_id"`
	Activo       bool       `json:"activo"`
	UltimoAcceso *time.Time `json:"ultimo_acceso,omitempty"`
	Version      int        `json:"version"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
