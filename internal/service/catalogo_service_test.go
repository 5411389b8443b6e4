package service

import (
	"context"
	"testing"

	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSucursal_DuplicatePolicy(t *testing.T) {
	db := newTestDB(t)
	svc := NewSucursalService(repository.NewSucursalRepository(db))
	ctx := context.Background()

	central, err := svc.Crear(ctx, dto.SucursalRequest{Nombre: "Central"})
	require.NoError(t, err)
	assert.True(t, central.Activo)
	assert.Equal(t, 1, central.Version)

	// Active match: field-level error.
	_, err = svc.Crear(ctx, dto.SucursalRequest{Nombre: "central"})
	var ve *gymerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "nombre")

	// Inactive match: reactivation decision, nothing written.
	require.NoError(t, svc.Desactivar(ctx, central.ID))
	_, err = svc.Crear(ctx, dto.SucursalRequest{Nombre: "Central"})
	var rr *gymerr.ReactivationRequired
	require.ErrorAs(t, err, &rr)
	assert.Equal(t, central.ID, rr.ID)

	todas, err := svc.Listar(ctx, dto.FiltroTodos)
	require.NoError(t, err)
	assert.Len(t, todas, 1)

	require.NoError(t, svc.Reactivar(ctx, central.ID))
	activas, err := svc.Listar(ctx, dto.FiltroActivos)
	require.NoError(t, err)
	require.Len(t, activas, 1)
	assert.Equal(t, central.ID, activas[0].ID)
}

func TestSucursal_LifecycleIdempotence(t *testing.T) {
	db := newTestDB(t)
	svc := NewSucursalService(repository.NewSucursalRepository(db))
	ctx := context.Background()

	s, err := svc.Crear(ctx, dto.SucursalRequest{Nombre: "Norte"})
	require.NoError(t, err)

	require.NoError(t, svc.Desactivar(ctx, s.ID))
	require.NoError(t, svc.Desactivar(ctx, s.ID), "deactivating twice is a no-op")

	inactivas, err := svc.Listar(ctx, dto.FiltroInactivos)
	require.NoError(t, err)
	assert.Len(t, inactivas, 1)
	activas, err := svc.Listar(ctx, dto.FiltroActivos)
	require.NoError(t, err)
	assert.Empty(t, activas)

	require.NoError(t, svc.Reactivar(ctx, s.ID))
	assert.ErrorIs(t, svc.Reactivar(ctx, s.ID), gymerr.ErrNotFound, "reactivating an active row")
	assert.ErrorIs(t, svc.Reactivar(ctx, uuid.New()), gymerr.ErrNotFound)
	assert.ErrorIs(t, svc.Desactivar(ctx, uuid.New()), gymerr.ErrNotFound)
}

func TestSucursal_EditPolicyAndConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewSucursalService(repository.NewSucursalRepository(db))
	ctx := context.Background()

	a, err := svc.Crear(ctx, dto.SucursalRequest{Nombre: "Centro"})
	require.NoError(t, err)
	b, err := svc.Crear(ctx, dto.SucursalRequest{Nombre: "Sur"})
	require.NoError(t, err)

	// Renaming onto another row is rejected even when that row is inactive.
	require.NoError(t, svc.Desactivar(ctx, a.ID))
	_, err = svc.Actualizar(ctx, b.ID, dto.ActualizarSucursalRequest{
		SucursalRequest: dto.SucursalRequest{Nombre: "CENTRO"}, Version: b.Version,
	})
	var ve *gymerr.ValidationError
	require.ErrorAs(t, err, &ve)

	// Keeping its own name is fine.
	upd, err := svc.Actualizar(ctx, b.ID, dto.ActualizarSucursalRequest{
		SucursalRequest: dto.SucursalRequest{Nombre: "Sur", Telefono: "555-1234"}, Version: b.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "555-1234", upd.Telefono)
	assert.Equal(t, b.Version+1, upd.Version)

	// A save carrying the old version lost the race.
	_, err = svc.Actualizar(ctx, b.ID, dto.ActualizarSucursalRequest{
		SucursalRequest: dto.SucursalRequest{Nombre: "Sur"}, Version: b.Version,
	})
	assert.ErrorIs(t, err, gymerr.ErrConflict)

	_, err = svc.Actualizar(ctx, uuid.New(), dto.ActualizarSucursalRequest{
		SucursalRequest: dto.SucursalRequest{Nombre: "X"}, Version: 1,
	})
	assert.ErrorIs(t, err, gymerr.ErrNotFound)
}

func TestEspecialidadYPlan_SharedLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	esp := NewEspecialidadService(repository.NewEspecialidadRepository(db))
	planes := NewTipoMembresiaService(repository.NewTipoMembresiaRepository(db))

	e, err := esp.Crear(ctx, dto.EspecialidadRequest{Nombre: "Crossfit"})
	require.NoError(t, err)
	require.NoError(t, esp.Desactivar(ctx, e.ID))
	_, err = esp.Crear(ctx, dto.EspecialidadRequest{Nombre: "crossfit"})
	var rr *gymerr.ReactivationRequired
	require.ErrorAs(t, err, &rr)
	assert.Equal(t, e.ID, rr.ID)

	// Names are unique per kind, not across kinds.
	p, err := planes.Crear(ctx, dto.TipoMembresiaRequest{Nombre: "Crossfit", DuracionDias: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, p.DuracionDias)
}

// sucursalesSinBusqueda hides every row from the name lookup, as if another
// request inserted the clashing row right after the check.
type sucursalesSinBusqueda struct{ repository.SucursalRepository }

func (sucursalesSinBusqueda) FindByNombre(context.Context, string, *uuid.UUID) (*model.Sucursal, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestSucursal_ActiveNameIndex(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := repository.NewSucursalRepository(db)

	central := &model.Sucursal{Nombre: "Central", Activo: true}
	require.NoError(t, repo.Create(ctx, central))
	err := repo.Create(ctx, &model.Sucursal{Nombre: "CENTRAL", Activo: true})
	assert.True(t, repository.IsDuplicate(err), "two active rows cannot share a name: %v", err)

	var activas int64
	require.NoError(t, db.Model(&model.Sucursal{}).Where("activo = ?", true).Count(&activas).Error)
	assert.EqualValues(t, 1, activas)

	// The index only covers active rows.
	require.NoError(t, repo.Desactivar(ctx, central.ID))
	nueva := &model.Sucursal{Nombre: "Central", Activo: true}
	require.NoError(t, repo.Create(ctx, nueva))

	svc := NewSucursalService(sucursalesSinBusqueda{repo})

	// Reactivating the old row now clashes with the new one.
	err = svc.Reactivar(ctx, central.ID)
	var ve *gymerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "nombre")

	// A create that slipped past the lookup still ends as a field error.
	_, err = svc.Crear(ctx, dto.SucursalRequest{Nombre: "central"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "nombre")

	sur, err := svc.Crear(ctx, dto.SucursalRequest{Nombre: "Sur"})
	require.NoError(t, err)
	_, err = svc.Actualizar(ctx, sur.ID, dto.ActualizarSucursalRequest{
		SucursalRequest: dto.SucursalRequest{Nombre: "Central"}, Version: sur.Version,
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "nombre")
}
