package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TipoMembresia is a purchasable plan. A Membresia copies its price at
// purchase time, so later price changes never rewrite past sales.
type TipoMembresia struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre       string    `gorm:"size:100;not null;index"`
	Descripcion  string
	DuracionDias int             `gorm:"not null"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Activo       bool            `gorm:"not null;default:true"`
	Version      int             `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (TipoMembresia) TableName() string { return "tipos_membresia" }

func (t *TipoMembresia) BeforeCreate(*gorm.DB) error {
	asignarID(&t.ID, &t.Version)
	return nil
}
