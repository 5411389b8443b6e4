package repository

import (
	"context"

	"gymdesk/internal/dto"
	"gymdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalogo is satisfied by the reference-data models that share the
// name-unique-among-active lifecycle.
type Catalogo interface {
	model.Sucursal | model.Actividad | model.TipoMembresia | model.Especialidad
}

// CatalogoRepository stores one kind of reference data.
type CatalogoRepository[T Catalogo] interface {
	Create(ctx context.Context, v *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error)
	// FindByNombre matches case-insensitively regardless of the active flag.
	FindByNombre(ctx context.Context, nombre string, excluirID *uuid.UUID) (*T, error)
	List(ctx context.Context, filtro dto.FiltroEstado) ([]T, error)
	Update(ctx context.Context, id uuid.UUID, version int, campos map[string]any) error
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type (
	SucursalRepository      = CatalogoRepository[model.Sucursal]
	ActividadRepository     = CatalogoRepository[model.Actividad]
	TipoMembresiaRepository = CatalogoRepository[model.TipoMembresia]
	EspecialidadRepository  = CatalogoRepository[model.Especialidad]
)

type catalogoRepo[T Catalogo] struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository {
	return &catalogoRepo[model.Sucursal]{db: db}
}

func NewActividadRepository(db *gorm.DB) ActividadRepository {
	return &catalogoRepo[model.Actividad]{db: db}
}

func NewTipoMembresiaRepository(db *gorm.DB) TipoMembresiaRepository {
	return &catalogoRepo[model.TipoMembresia]{db: db}
}

func NewEspecialidadRepository(db *gorm.DB) EspecialidadRepository {
	return &catalogoRepo[model.Especialidad]{db: db}
}

func (r *catalogoRepo[T]) Create(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *catalogoRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var v T
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *catalogoRepo[T]) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error) {
	var list []T
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *catalogoRepo[T]) FindByNombre(ctx context.Context, nombre string, excluirID *uuid.UUID) (*T, error) {
	var v T
	q := r.db.WithContext(ctx).Where("lower(nombre) = lower(?)", nombre)
	// Active rows first so the duplicate policy sees the hard conflict.
	err := excluir(q, excluirID).Order("activo desc").First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *catalogoRepo[T]) List(ctx context.Context, filtro dto.FiltroEstado) ([]T, error) {
	var list []T
	err := filtrarEstado(r.db.WithContext(ctx), filtro).Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *catalogoRepo[T]) Update(ctx context.Context, id uuid.UUID, version int, campos map[string]any) error {
	return actualizarVersionado(ctx, r.db, new(T), id, version, campos)
}

func (r *catalogoRepo[T]) Desactivar(ctx context.Context, id uuid.UUID) error {
	return desactivar(ctx, r.db, new(T), id)
}

func (r *catalogoRepo[T]) Reactivar(ctx context.Context, id uuid.UUID) error {
	return reactivar(ctx, r.db, new(T), id)
}
