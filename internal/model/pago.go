package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const MetodoPagoSimulado = "Simulated"

// Pago is an append-only ledger entry; rows are never updated or deleted.
type Pago struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MiembroID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	MembresiaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha       time.Time       `gorm:"not null;index"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago  string          `gorm:"size:30;not null"`
	CreatedAt   time.Time

	Miembro *Miembro `gorm:"foreignKey:MiembroID"`
}

func (Pago) TableName() string { return "pagos" }

func (p *Pago) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID, nil)
	return nil
}
