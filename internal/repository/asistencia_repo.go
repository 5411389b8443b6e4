package repository

import (
	"context"

	"gymdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AsistenciaRepository is append-only.
type AsistenciaRepository interface {
	Create(ctx context.Context, a *model.Asistencia) error
	ExisteEnDia(ctx context.Context, miembroID, claseID uuid.UUID, dia string) (bool, error)
}

type asistenciaRepo struct{ db *gorm.DB }

func NewAsistenciaRepository(db *gorm.DB) AsistenciaRepository { return &asistenciaRepo{db: db} }

func (r *asistenciaRepo) Create(ctx context.Context, a *model.Asistencia) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *asistenciaRepo) ExisteEnDia(ctx context.Context, miembroID, claseID uuid.UUID, dia string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Asistencia{}).
		Where("miembro_id = ? AND clase_id = ? AND dia = ?", miembroID, claseID, dia).
		Count(&n).Error
	return n > 0, err
}
