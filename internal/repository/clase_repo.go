package repository

import (
	"context"

	"gymdesk/internal/dto"
	"gymdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClaseRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.Clase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Clase, error)
	// FindByIDForUpdate loads the bare row and locks it until tx ends.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Clase, error)
	// FindByNombre matches case-insensitively within one branch.
	FindByNombre(ctx context.Context, sucursalID uuid.UUID, nombre string, excluirID *uuid.UUID) (*model.Clase, error)
	List(ctx context.Context, filtro dto.FiltroEstado, sucursalID *uuid.UUID) ([]model.Clase, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int, campos map[string]any) error
	ReemplazarIntegrantesTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, profesores []model.Profesor, miembros []model.Miembro) error
	ReemplazarHorariosTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, horarios []model.HorarioClase) error
	ContarMiembrosTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
	EstaInscriptoTx(ctx context.Context, tx *gorm.DB, id, miembroID uuid.UUID) (bool, error)
	AgregarMiembroTx(ctx context.Context, tx *gorm.DB, id, miembroID uuid.UUID) error
	// Ocupacion returns enrolled member counts keyed by class id.
	Ocupacion(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

const (
	tablaClaseMiembros   = "clase_miembros"
	tablaClaseProfesores = "clase_profesores"
)

type claseRepo struct{ db *gorm.DB }

func NewClaseRepository(db *gorm.DB) ClaseRepository { return &claseRepo{db: db} }

func (r *claseRepo) DB() *gorm.DB { return r.db }

func (r *claseRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.Clase) error {
	return pick(r.db, tx).WithContext(ctx).Create(c).Error
}

func (r *claseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Clase, error) {
	var c model.Clase
	err := r.db.WithContext(ctx).
		Preload("Actividad").Preload("Sucursal").Preload("Horarios").
		Preload("Miembros").Preload("Profesores").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *claseRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Clase, error) {
	var c model.Clase
	err := pick(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *claseRepo) FindByNombre(ctx context.Context, sucursalID uuid.UUID, nombre string, excluirID *uuid.UUID) (*model.Clase, error) {
	var c model.Clase
	q := r.db.WithContext(ctx).Where("sucursal_id = ? AND lower(nombre) = lower(?)", sucursalID, nombre)
	if err := excluir(q, excluirID).Order("activo desc").First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *claseRepo) List(ctx context.Context, filtro dto.FiltroEstado, sucursalID *uuid.UUID) ([]model.Clase, error) {
	var list []model.Clase
	q := filtrarEstado(r.db.WithContext(ctx), filtro)
	if sucursalID != nil {
		q = q.Where("sucursal_id = ?", *sucursalID)
	}
	err := q.Preload("Actividad").Preload("Sucursal").Preload("Horarios").
		Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *claseRepo) UpdateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int, campos map[string]any) error {
	return actualizarVersionado(ctx, pick(r.db, tx), &model.Clase{}, id, version, campos)
}

// ReemplazarIntegrantesTx clears both sets and assigns the given ones.
func (r *claseRepo) ReemplazarIntegrantesTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, profesores []model.Profesor, miembros []model.Miembro) error {
	db := pick(r.db, tx).WithContext(ctx)
	if err := db.Exec("DELETE FROM "+tablaClaseProfesores+" WHERE clase_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM "+tablaClaseMiembros+" WHERE clase_id = ?", id).Error; err != nil {
		return err
	}
	if len(profesores) > 0 {
		rows := make([]map[string]any, 0, len(profesores))
		for _, p := range profesores {
			rows = append(rows, map[string]any{"clase_id": id, "profesor_id": p.ID})
		}
		if err := db.Table(tablaClaseProfesores).Create(rows).Error; err != nil {
			return err
		}
	}
	if len(miembros) > 0 {
		rows := make([]map[string]any, 0, len(miembros))
		for _, m := range miembros {
			rows = append(rows, map[string]any{"clase_id": id, "miembro_id": m.ID})
		}
		if err := db.Table(tablaClaseMiembros).Create(rows).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *claseRepo) ReemplazarHorariosTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, horarios []model.HorarioClase) error {
	db := pick(r.db, tx).WithContext(ctx)
	if err := db.Where("clase_id = ?", id).Delete(&model.HorarioClase{}).Error; err != nil {
		return err
	}
	if len(horarios) == 0 {
		return nil
	}
	for i := range horarios {
		horarios[i].ClaseID = id
	}
	return db.Create(&horarios).Error
}

func (r *claseRepo) ContarMiembrosTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	var n int64
	err := pick(r.db, tx).WithContext(ctx).Table(tablaClaseMiembros).Where("clase_id = ?", id).Count(&n).Error
	return n, err
}

func (r *claseRepo) EstaInscriptoTx(ctx context.Context, tx *gorm.DB, id, miembroID uuid.UUID) (bool, error) {
	var n int64
	err := pick(r.db, tx).WithContext(ctx).Table(tablaClaseMiembros).
		Where("clase_id = ? AND miembro_id = ?", id, miembroID).Count(&n).Error
	return n > 0, err
}

func (r *claseRepo) AgregarMiembroTx(ctx context.Context, tx *gorm.DB, id, miembroID uuid.UUID) error {
	return pick(r.db, tx).WithContext(ctx).Table(tablaClaseMiembros).
		Create(map[string]any{"clase_id": id, "miembro_id": miembroID}).Error
}

func (r *claseRepo) Ocupacion(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ClaseID uuid.UUID
		Total   int64
	}
	err := r.db.WithContext(ctx).Table(tablaClaseMiembros).
		Select("clase_id, count(*) AS total").
		Where("clase_id IN ?", ids).
		Group("clase_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ClaseID] = row.Total
	}
	return out, nil
}

func (r *claseRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return desactivar(ctx, r.db, &model.Clase{}, id)
}

func (r *claseRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return reactivar(ctx, r.db, &model.Clase{}, id)
}
