package repository

import (
	"context"
	"time"

	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	// FindByUsername matches case-insensitively and ignores the active flag.
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	// FindConflicto returns an account whose username or email collides.
	FindConflicto(ctx context.Context, username, email string, excluirID *uuid.UUID) (*model.Usuario, error)
	List(ctx context.Context, filtro dto.FiltroEstado) ([]model.Usuario, error)
	Update(ctx context.Context, id uuid.UUID, version int, campos map[string]any) error
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	RegistrarAcceso(ctx context.Context, id uuid.UUID, at time.Time) error
	// PromoverRolTx moves the role from desde to hacia; it fails with
	// gymerr.ErrAlreadyMember when the account no longer holds desde.
	PromoverRolTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, desde, hacia model.Rol) error
	ExisteRol(ctx context.Context, rol model.Rol) (bool, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("lower(username) = lower(?)", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindConflicto(ctx context.Context, username, email string, excluirID *uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	q := r.db.WithContext(ctx).Where("(lower(username) = lower(?) OR lower(email) = lower(?))", username, email)
	if err := excluir(q, excluirID).Order("activo desc").First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) List(ctx context.Context, filtro dto.FiltroEstado) ([]model.Usuario, error) {
	var users []model.Usuario
	err := filtrarEstado(r.db.WithContext(ctx), filtro).Order("username asc").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, id uuid.UUID, version int, campos map[string]any) error {
	return actualizarVersionado(ctx, r.db, &model.Usuario{}, id, version, campos)
}

func (r *usuarioRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return desactivar(ctx, r.db, &model.Usuario{}, id)
}

func (r *usuarioRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return reactivar(ctx, r.db, &model.Usuario{}, id)
}

func (r *usuarioRepo) RegistrarAcceso(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).
		UpdateColumn("ultimo_acceso", at).Error
}

func (r *usuarioRepo) PromoverRolTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, desde, hacia model.Rol) error {
	res := pick(r.db, tx).WithContext(ctx).Model(&model.Usuario{}).
		Where("id = ? AND rol = ?", id, desde).
		Updates(map[string]any{"rol": hacia, "version": gorm.Expr("version + 1")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gymerr.ErrAlreadyMember
	}
	return nil
}

func (r *usuarioRepo) ExisteRol(ctx context.Context, rol model.Rol) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("rol = ?", rol).Count(&n).Error
	return n > 0, err
}
