package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Licencia is the member card. CodigoBarras is the EAN-13 of the member DNI
// and is what the front desk scans on check-in.
type Licencia struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	MiembroID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CodigoBarras string    `gorm:"size:13;not null;uniqueIndex"`
	Vigencia     `gorm:"embedded"`
	Activo       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Licencia) TableName() string { return "licencias" }

func (l *Licencia) BeforeCreate(*gorm.DB) error {
	asignarID(&l.ID, nil)
	return nil
}
