package repository

import (
	"context"

	"gymdesk/internal/dto"
	"gymdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MiembroRepository interface {
	Create(ctx context.Context, m *model.Miembro) error
	// CreateTx inserts the member together with its license and membership.
	CreateTx(ctx context.Context, tx *gorm.DB, m *model.Miembro) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Miembro, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Miembro, error)
	// FindByDNI looks at every member, active or not.
	FindByDNI(ctx context.Context, dni string, excluirID *uuid.UUID) (*model.Miembro, error)
	FindByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Miembro, error)
	FindByCodigoBarras(ctx context.Context, codigo string) (*model.Miembro, error)
	List(ctx context.Context, filtro dto.FiltroEstado) ([]model.Miembro, error)
	Update(ctx context.Context, id uuid.UUID, version int, campos map[string]any) error
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type miembroRepo struct{ db *gorm.DB }

func NewMiembroRepository(db *gorm.DB) MiembroRepository { return &miembroRepo{db: db} }

func (r *miembroRepo) DB() *gorm.DB { return r.db }

func (r *miembroRepo) Create(ctx context.Context, m *model.Miembro) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *miembroRepo) CreateTx(ctx context.Context, tx *gorm.DB, m *model.Miembro) error {
	return pick(r.db, tx).WithContext(ctx).Create(m).Error
}

func (r *miembroRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Miembro, error) {
	var m model.Miembro
	err := r.db.WithContext(ctx).
		Preload("Licencia").Preload("Membresia.TipoMembresia").
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *miembroRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Miembro, error) {
	var list []model.Miembro
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *miembroRepo) FindByDNI(ctx context.Context, dni string, excluirID *uuid.UUID) (*model.Miembro, error) {
	var m model.Miembro
	if err := excluir(r.db.WithContext(ctx).Where("dni = ?", dni), excluirID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *miembroRepo) FindByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Miembro, error) {
	var m model.Miembro
	err := r.db.WithContext(ctx).
		Preload("Licencia").Preload("Membresia.TipoMembresia").
		Where("usuario_id = ?", usuarioID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *miembroRepo) FindByCodigoBarras(ctx context.Context, codigo string) (*model.Miembro, error) {
	var m model.Miembro
	err := r.db.WithContext(ctx).
		Joins("JOIN licencias ON licencias.miembro_id = miembros.id").
		Where("licencias.codigo_barras = ?", codigo).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *miembroRepo) List(ctx context.Context, filtro dto.FiltroEstado) ([]model.Miembro, error) {
	var list []model.Miembro
	q := filtrarEstado(r.db.WithContext(ctx), filtro)
	err := q.Preload("Licencia").Preload("Membresia").Order("apellido asc, nombre asc").Find(&list).Error
	return list, err
}

func (r *miembroRepo) Update(ctx context.Context, id uuid.UUID, version int, campos map[string]any) error {
	return actualizarVersionado(ctx, r.db, &model.Miembro{}, id, version, campos)
}

func (r *miembroRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return desactivar(ctx, r.db, &model.Miembro{}, id)
}

func (r *miembroRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return reactivar(ctx, r.db, &model.Miembro{}, id)
}
