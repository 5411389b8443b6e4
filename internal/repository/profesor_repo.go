package repository

import (
	"context"

	"gymdesk/internal/dto"
	"gymdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfesorRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Profesor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profesor, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Profesor, error)
	// FindConflicto returns a coach sharing the DNI or the email.
	FindConflicto(ctx context.Context, dni, email string, excluirID *uuid.UUID) (*model.Profesor, error)
	List(ctx context.Context, filtro dto.FiltroEstado, sucursalID *uuid.UUID) ([]model.Profesor, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int, campos map[string]any) error
	ReemplazarEspecialidadesTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, especialidades []model.Especialidad) error
	ReemplazarHorariosTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, horarios []model.HorarioProfesor) error
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type profesorRepo struct{ db *gorm.DB }

func NewProfesorRepository(db *gorm.DB) ProfesorRepository { return &profesorRepo{db: db} }

func (r *profesorRepo) DB() *gorm.DB { return r.db }

func (r *profesorRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Profesor) error {
	return pick(r.db, tx).WithContext(ctx).Create(p).Error
}

func (r *profesorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Profesor, error) {
	var p model.Profesor
	err := r.db.WithContext(ctx).
		Preload("Sucursal").Preload("Especialidades").Preload("Horarios").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profesorRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Profesor, error) {
	var list []model.Profesor
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *profesorRepo) FindConflicto(ctx context.Context, dni, email string, excluirID *uuid.UUID) (*model.Profesor, error) {
	var p model.Profesor
	q := r.db.WithContext(ctx).Where("dni = ?", dni)
	if email != "" {
		q = r.db.WithContext(ctx).Where("(dni = ? OR lower(email) = lower(?))", dni, email)
	}
	if err := excluir(q, excluirID).Order("activo desc").First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profesorRepo) List(ctx context.Context, filtro dto.FiltroEstado, sucursalID *uuid.UUID) ([]model.Profesor, error) {
	var list []model.Profesor
	q := filtrarEstado(r.db.WithContext(ctx), filtro)
	if sucursalID != nil {
		q = q.Where("sucursal_id = ?", *sucursalID)
	}
	err := q.Preload("Especialidades").Order("apellido asc, nombre asc").Find(&list).Error
	return list, err
}

func (r *profesorRepo) UpdateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int, campos map[string]any) error {
	return actualizarVersionado(ctx, pick(r.db, tx), &model.Profesor{}, id, version, campos)
}

func (r *profesorRepo) ReemplazarEspecialidadesTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, especialidades []model.Especialidad) error {
	p := &model.Profesor{ID: id}
	return pick(r.db, tx).WithContext(ctx).Model(p).Association("Especialidades").Replace(especialidades)
}

func (r *profesorRepo) ReemplazarHorariosTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, horarios []model.HorarioProfesor) error {
	db := pick(r.db, tx).WithContext(ctx)
	if err := db.Where("profesor_id = ?", id).Delete(&model.HorarioProfesor{}).Error; err != nil {
		return err
	}
	if len(horarios) == 0 {
		return nil
	}
	for i := range horarios {
		horarios[i].ProfesorID = id
	}
	return db.Create(&horarios).Error
}

func (r *profesorRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return desactivar(ctx, r.db, &model.Profesor{}, id)
}

func (r *profesorRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return reactivar(ctx, r.db, &model.Profesor{}, id)
}
