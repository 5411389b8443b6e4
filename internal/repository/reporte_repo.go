package repository

import (
	"context"
	"time"

	"gymdesk/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReporteRepository holds the read-only queries behind the reports.
type ReporteRepository interface {
	AsistenciasEntre(ctx context.Context, desde, hasta time.Time) ([]model.Asistencia, error)
	Deudores(ctx context.Context) ([]model.Membresia, []model.Miembro, error)
	PagosEntre(ctx context.Context, desde, hasta time.Time) ([]model.Pago, decimal.Decimal, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

// AsistenciasEntre returns check-ins in [desde, hasta), newest first.
func (r *reporteRepo) AsistenciasEntre(ctx context.Context, desde, hasta time.Time) ([]model.Asistencia, error) {
	var list []model.Asistencia
	err := r.db.WithContext(ctx).
		Preload("Miembro").Preload("Clase").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Order("fecha desc").
		Find(&list).Error
	return list, err
}

// Deudores returns memberships with outstanding debt, largest first, and
// their owners.
func (r *reporteRepo) Deudores(ctx context.Context) ([]model.Membresia, []model.Miembro, error) {
	var membresias []model.Membresia
	err := r.db.WithContext(ctx).
		Preload("TipoMembresia").
		Where("deuda > 0").
		Order("deuda desc").
		Find(&membresias).Error
	if err != nil || len(membresias) == 0 {
		return membresias, nil, err
	}

	ids := make([]any, 0, len(membresias))
	for _, m := range membresias {
		ids = append(ids, m.MiembroID)
	}
	var miembros []model.Miembro
	err = r.db.WithContext(ctx).Where("id IN ?", ids).Find(&miembros).Error
	return membresias, miembros, err
}

// PagosEntre returns payments in [desde, hasta) and their sum.
func (r *reporteRepo) PagosEntre(ctx context.Context, desde, hasta time.Time) ([]model.Pago, decimal.Decimal, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).
		Preload("Miembro").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Order("fecha asc").
		Find(&pagos).Error
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range pagos {
		total = total.Add(p.Monto)
	}
	return pagos, total, nil
}
