package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// ClaseRequest carries the complete coach and member sets: they replace the
// current ones, they are not deltas.
type ClaseRequest struct {
	Nombre      string           `json:"nombre"       validate:"required,min=2,max=100"`
	Descripcion string           `json:"descripcion"  validate:"max=500"`
	ActividadID uuid.UUID        `json:"actividad_id" validate:"required"`
	SucursalID  *uuid.UUID       `json:"sucursal_id"`
	Cupo        int              `json:"cupo"         validate:"required,min=1,max=1000"`
	ProfesorIDs []uuid.UUID      `json:"profesor_ids"`
	MiembroIDs  []uuid.UUID      `json:"miembro_ids"`
	Horarios    []HorarioRequest `json:"horarios"     validate:"dive"`
}

type ActualizarClaseRequest struct {
	ClaseRequest
	Version int `json:"version" validate:"required,min=1"`
}

type IntegrantesRequest struct {
	ProfesorIDs []uuid.UUID `json:"profesor_ids"`
	MiembroIDs  []uuid.UUID `json:"miembro_ids"`
}

type RegistrarAsistenciaRequest struct {
	CodigoBarras string    `json:"codigo_barras" validate:"required,len=13,number"`
	ClaseID      uuid.UUID `json:"clase_id"      validate:"required"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ClaseResponse struct {
	ID          uuid.UUID         `json:"id"`
	Nombre      string            `json:"nombre"`
	Descripcion string            `json:"descripcion"`
	Actividad   RefResponse       `json:"actividad"`
	Sucursal    RefResponse       `json:"sucursal"`
	Cupo        int               `json:"cupo"`
	Inscriptos  int               `json:"inscriptos"`
	Activo      bool              `json:"activo"`
	Version     int               `json:"version"`
	Horarios    []HorarioResponse `json:"horarios"`
	Profesores  []RefResponse     `json:"profesores,omitempty"`
	Miembros    []RefResponse     `json:"miembros,omitempty"`
}

type InscripcionResponse struct {
	ClaseID    uuid.UUID `json:"clase_id"`
	MiembroID  uuid.UUID `json:"miembro_id"`
	Inscriptos int       `json:"inscriptos"`
	Cupo       int       `json:"cupo"`
	Mensaje    string    `json:"mensaje"`
}

type AsistenciaResponse struct {
	ID        uuid.UUID `json:"id"`
	MiembroID uuid.UUID `json:"miembro_id"`
	Miembro   string    `json:"miembro"`
	ClaseID   uuid.UUID `json:"clase_id"`
	Clase     string    `json:"clase"`
	Fecha     time.Time `json:"fecha"`
}
