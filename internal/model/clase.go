package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Clase is a classroom: an activity given at a branch for at most Cupo
// enrolled members.
type Clase struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre      string    `gorm:"size:100;not null;index"`
	Descripcion string
	ActividadID uuid.UUID `gorm:"type:uuid;not null;index"`
	SucursalID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Cupo        int       `gorm:"not null"`
	Activo      bool      `gorm:"not null;default:true"`
	Version     int       `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Actividad  *Actividad     `gorm:"foreignKey:ActividadID"`
	Sucursal   *Sucursal      `gorm:"foreignKey:SucursalID"`
	Horarios   []HorarioClase `gorm:"foreignKey:ClaseID;constraint:OnDelete:CASCADE"`
	Miembros   []Miembro      `gorm:"many2many:clase_miembros"`
	Profesores []Profesor     `gorm:"many2many:clase_profesores"`
}

func (Clase) TableName() string { return "clases" }

func (c *Clase) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID, &c.Version)
	return nil
}

// HorarioClase is a weekly slot in which a class takes place.
type HorarioClase struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	Franja  `gorm:"embedded"`
}

func (HorarioClase) TableName() string { return "horarios_clase" }

func (h *HorarioClase) BeforeCreate(*gorm.DB) error {
	asignarID(&h.ID, nil)
	return nil
}
