package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EstadoMembresiaPagada    = "Pagada"
	EstadoMembresiaPendiente = "Pendiente"
)

// Membresia is the plan a member is currently on.
type Membresia struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MiembroID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TipoMembresiaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Estado          string          `gorm:"size:20;not null"`
	PrecioPagado    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Deuda           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Vigencia        `gorm:"embedded"`
	Activo          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	TipoMembresia *TipoMembresia `gorm:"foreignKey:TipoMembresiaID"`
}

func (Membresia) TableName() string { return "membresias" }

func (m *Membresia) BeforeCreate(*gorm.DB) error {
	asignarID(&m.ID, nil)
	return nil
}
