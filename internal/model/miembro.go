package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Miembro is a gym member. DNI is unique across every member ever created,
// active or not (ux_miembros_dni, see infra.Migrate).
type Miembro struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Persona         `gorm:"embedded"`
	FechaNacimiento *datatypes.Date
	Direccion       string
	Genero          string `gorm:"size:20"`
	Notas           string
	Activo          bool `gorm:"not null;default:true"`
	Version         int  `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Usuario   *Usuario   `gorm:"foreignKey:UsuarioID"`
	Licencia  *Licencia  `gorm:"foreignKey:MiembroID"`
	Membresia *Membresia `gorm:"foreignKey:MiembroID"`
}

func (Miembro) TableName() string { return "miembros" }

func (m *Miembro) BeforeCreate(*gorm.DB) error {
	asignarID(&m.ID, &m.Version)
	return nil
}
