package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Especialidad struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"size:100;not null;index"`
	Activo    bool      `gorm:"not null;default:true"`
	Version   int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Especialidad) TableName() string { return "especialidades" }

func (e *Especialidad) BeforeCreate(*gorm.DB) error {
	asignarID(&e.ID, &e.Version)
	return nil
}
