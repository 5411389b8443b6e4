package repository

import (
	"context"
	"errors"

	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pick returns tx when the caller is inside a transaction.
func pick(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func filtrarEstado(q *gorm.DB, filtro dto.FiltroEstado) *gorm.DB {
	switch filtro {
	case dto.FiltroInactivos:
		return q.Where("activo = ?", false)
	case dto.FiltroTodos:
		return q
	default:
		return q.Where("activo = ?", true)
	}
}

// excluir narrows a uniqueness lookup to rows other than id.
func excluir(q *gorm.DB, id *uuid.UUID) *gorm.DB {
	if id == nil {
		return q
	}
	return q.Where("id <> ?", *id)
}

// actualizarVersionado writes campos only if the row still carries version.
// A missing row and a stale version both surface as gymerr.ErrConflict.
func actualizarVersionado(ctx context.Context, db *gorm.DB, modelo any, id uuid.UUID, version int, campos map[string]any) error {
	campos["version"] = gorm.Expr("version + 1")
	res := db.WithContext(ctx).Model(modelo).Where("id = ? AND version = ?", id, version).Updates(campos)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gymerr.ErrConflict
	}
	return nil
}

// desactivar is idempotent: an already inactive row is left untouched.
func desactivar(ctx context.Context, db *gorm.DB, modelo any, id uuid.UUID) error {
	res := db.WithContext(ctx).Model(modelo).Where("id = ? AND activo = ?", id, true).
		Updates(map[string]any{"activo": false, "version": gorm.Expr("version + 1")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(modelo).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gymerr.ErrNotFound
	}
	return nil
}

// reactivar only moves Inactive → Active; anything else is ErrNotFound.
func reactivar(ctx context.Context, db *gorm.DB, modelo any, id uuid.UUID) error {
	res := db.WithContext(ctx).Model(modelo).Where("id = ? AND activo = ?", id, false).
		Updates(map[string]any{"activo": true, "version": gorm.Expr("version + 1")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gymerr.ErrNotFound
	}
	return nil
}

// IsDuplicate reports a unique-constraint violation from either driver.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKey reports a foreign-key violation from either driver.
func IsForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
