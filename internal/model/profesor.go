package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profesor is a coach working at one branch.
// Estado is the free-text employment state ("activo", "licencia"...).
type Profesor struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Persona    `gorm:"embedded"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;index"`
	Estado     string    `gorm:"size:50"`
	Activo     bool      `gorm:"not null;default:true"`
	Version    int       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sucursal       *Sucursal         `gorm:"foreignKey:SucursalID"`
	Especialidades []Especialidad    `gorm:"many2many:profesor_especialidades"`
	Horarios       []HorarioProfesor `gorm:"foreignKey:ProfesorID;constraint:OnDelete:CASCADE"`
}

func (Profesor) TableName() string { return "profesores" }

func (p *Profesor) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID, &p.Version)
	return nil
}

// HorarioProfesor is a weekly availability slot of a coach.
type HorarioProfesor struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProfesorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Franja     `gorm:"embedded"`
}

func (HorarioProfesor) TableName() string { return "horarios_profesor" }

func (h *HorarioProfesor) BeforeCreate(*gorm.DB) error {
	asignarID(&h.ID, nil)
	return nil
}
