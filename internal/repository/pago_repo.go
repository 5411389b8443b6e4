package repository

import (
	"context"

	"gymdesk/internal/model"

	"gorm.io/gorm"
)

// PagoRepository is append-only: the ledger has no update or delete.
type PagoRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pago) error
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	return pick(r.db, tx).WithContext(ctx).Create(p).Error
}
