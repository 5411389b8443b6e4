package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sucursal is a physical gym branch.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"size:100;not null;index"`
	Direccion string
	Telefono  string `gorm:"size:30"`
	Activo    bool   `gorm:"not null;default:true"`
	Version   int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Sucursal) TableName() string { return "sucursales" }

func (s *Sucursal) BeforeCreate(*gorm.DB) error {
	asignarID(&s.ID, &s.Version)
	return nil
}
