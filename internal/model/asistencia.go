package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormatoDia is the layout of Asistencia.Dia.
const FormatoDia = "2006-01-02"

// Asistencia is a check-in. Dia is the UTC calendar date of Fecha and backs
// the one-per-member-per-class-per-day unique index.
type Asistencia struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MiembroID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_asistencia_dia,priority:1"`
	ClaseID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_asistencia_dia,priority:2;index"`
	Dia       string    `gorm:"size:10;not null;uniqueIndex:idx_asistencia_dia,priority:3"`
	Fecha     time.Time `gorm:"not null;index"`

	Miembro *Miembro `gorm:"foreignKey:MiembroID"`
	Clase   *Clase   `gorm:"foreignKey:ClaseID"`
}

func (Asistencia) TableName() string { return "asistencias" }

func (a *Asistencia) BeforeCreate(*gorm.DB) error {
	asignarID(&a.ID, nil)
	if a.Dia == "" {
		a.Dia = a.Fecha.UTC().Format(FormatoDia)
	}
	return nil
}

// All lists every table in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Sucursal{}, &Usuario{}, &Actividad{}, &TipoMembresia{}, &Especialidad{},
		&Miembro{}, &Licencia{}, &Membresia{}, &Pago{},
		&Profesor{}, &HorarioProfesor{},
		&Clase{}, &HorarioClase{}, &Asistencia{},
	}
}
