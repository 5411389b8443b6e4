package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actividad is the kind of training a class delivers (spinning, yoga...).
type Actividad struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre          string    `gorm:"size:100;not null;index"`
	Descripcion     string
	DuracionMinutos int    `gorm:"not null;default:60"`
	Dificultad      string `gorm:"size:30"`
	Activo          bool   `gorm:"not null;default:true"`
	Version         int    `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Actividad) TableName() string { return "actividades" }

func (a *Actividad) BeforeCreate(*gorm.DB) error {
	asignarID(&a.ID, &a.Version)
	return nil
}
