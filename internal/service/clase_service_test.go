package service

import (
	"context"
	"testing"

	"gymdesk/internal/auth"
	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newClaseService(db *gorm.DB) ClaseService {
	return NewClaseService(
		repository.NewClaseRepository(db),
		repository.NewSucursalRepository(db),
		repository.NewActividadRepository(db),
		repository.NewProfesorRepository(db),
		repository.NewMiembroRepository(db),
	)
}

func TestInscribir_CapacityOne(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	suc := mustSucursal(t, db, "Central")
	act := mustActividad(t, db, "Spinning")
	a := mustMiembro(t, db, "Ana", "30111222")
	b := mustMiembro(t, db, "Beto", "30111333")
	svc := newClaseService(db)

	c, err := svc.Crear(ctx, superUser(), dto.ClaseRequest{
		Nombre: "Spinning 8am", ActividadID: act.ID, SucursalID: &suc.ID, Cupo: 1,
	})
	require.NoError(t, err)

	res, err := svc.Inscribir(ctx, c.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inscriptos)

	_, err = svc.Inscribir(ctx, c.ID, b.ID)
	assert.ErrorIs(t, err, gymerr.ErrCapacityExceeded)

	_, err = svc.Inscribir(ctx, c.ID, a.ID)
	assert.ErrorIs(t, err, gymerr.ErrAlreadyEnrolled)

	got, err := svc.Obtener(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Inscriptos)
	require.Len(t, got.Miembros, 1)
	assert.Equal(t, a.ID, got.Miembros[0].ID)
}

func TestInscribir_InactiveOrMissing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	suc := mustSucursal(t, db, "Central")
	act := mustActividad(t, db, "Yoga")
	m := mustMiembro(t, db, "Ana", "30111222")
	svc := newClaseService(db)

	c, err := svc.Crear(ctx, superUser(), dto.ClaseRequest{
		Nombre: "Yoga", ActividadID: act.ID, SucursalID: &suc.ID, Cupo: 5,
	})
	require.NoError(t, err)

	_, err = svc.Inscribir(ctx, uuid.New(), m.ID)
	assert.ErrorIs(t, err, gymerr.ErrNotFound)

	require.NoError(t, svc.Desactivar(ctx, c.ID))
	_, err = svc.Inscribir(ctx, c.ID, m.ID)
	assert.ErrorIs(t, err, gymerr.ErrInactive)
}

func TestInscribirCuenta_UsesLinkedMember(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	suc := mustSucursal(t, db, "Central")
	act := mustActividad(t, db, "Box")
	u := mustUsuario(t, db, "socio", model.RolMember, nil)
	m := mustMiembro(t, db, "Socio", "28999111")
	require.NoError(t, db.Model(&model.Miembro{}).Where("id = ?", m.ID).Update("usuario_id", u.ID).Error)
	svc := newClaseService(db)

	c, err := svc.Crear(ctx, superUser(), dto.ClaseRequest{
		Nombre: "Box", ActividadID: act.ID, SucursalID: &suc.ID, Cupo: 2,
	})
	require.NoError(t, err)

	res, err := svc.InscribirCuenta(ctx, auth.IdentidadDe(u), c.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, res.MiembroID)

	_, err = svc.InscribirCuenta(ctx, auth.Identidad{UsuarioID: uuid.New(), Rol: model.RolMember}, c.ID)
	assert.ErrorIs(t, err, gymerr.ErrNotFound)
}

func TestCrearClase_ScopedCallerAndDroppedIDs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	propia := mustSucursal(t, db, "Propia")
	ajena := mustSucursal(t, db, "Ajena")
	act := mustActividad(t, db, "Funcional")
	m := mustMiembro(t, db, "Ana", "30111222")
	svc := newClaseService(db)

	gerente := auth.Identidad{UsuarioID: uuid.New(), Rol: model.RolManager, SucursalID: &propia.ID}
	c, err := svc.Crear(ctx, gerente, dto.ClaseRequest{
		Nombre:      "Funcional",
		ActividadID: act.ID,
		SucursalID:  &ajena.ID,
		Cupo:        10,
		MiembroIDs:  []uuid.UUID{m.ID, uuid.New(), m.ID},
		ProfesorIDs: []uuid.UUID{uuid.New()},
		Horarios:    []dto.HorarioRequest{{DiaSemana: 1, Inicio: "08:00", Fin: "09:00"}},
	})
	require.NoError(t, err)
	assert.Equal(t, propia.ID, c.Sucursal.ID, "branch forced to the caller's own")
	assert.Equal(t, 1, c.Inscriptos)
	assert.Empty(t, c.Profesores)
	require.Len(t, c.Horarios, 1)
	assert.Equal(t, "08:00", c.Horarios[0].Inicio)
	assert.Equal(t, "lunes", c.Horarios[0].Dia)

	// The same caller cannot edit a class of another branch.
	otra, err := svc.Crear(ctx, superUser(), dto.ClaseRequest{
		Nombre: "Otra", ActividadID: act.ID, SucursalID: &ajena.ID, Cupo: 3,
	})
	require.NoError(t, err)
	_, err = svc.Actualizar(ctx, gerente, otra.ID, dto.ActualizarClaseRequest{
		ClaseRequest: dto.ClaseRequest{Nombre: "Otra", ActividadID: act.ID, Cupo: 3},
		Version:      otra.Version,
	})
	assert.ErrorIs(t, err, gymerr.ErrForbidden)

	// An unscoped caller must name the branch.
	_, err = svc.Crear(ctx, superUser(), dto.ClaseRequest{Nombre: "Sin sucursal", ActividadID: act.ID, Cupo: 3})
	var ve *gymerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "sucursal_id")
}

func TestCrearClase_NameUniquePerBranch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustSucursal(t, db, "A")
	b := mustSucursal(t, db, "B")
	act := mustActividad(t, db, "Pilates")
	svc := newClaseService(db)
	su := superUser()

	first, err := svc.Crear(ctx, su, dto.ClaseRequest{Nombre: "Pilates", ActividadID: act.ID, SucursalID: &a.ID, Cupo: 5})
	require.NoError(t, err)
	_, err = svc.Crear(ctx, su, dto.ClaseRequest{Nombre: "Pilates", ActividadID: act.ID, SucursalID: &b.ID, Cupo: 5})
	require.NoError(t, err, "same name in another branch")

	_, err = svc.Crear(ctx, su, dto.ClaseRequest{Nombre: "PILATES", ActividadID: act.ID, SucursalID: &a.ID, Cupo: 5})
	var ve *gymerr.ValidationError
	require.ErrorAs(t, err, &ve)

	require.NoError(t, svc.Desactivar(ctx, first.ID))
	_, err = svc.Crear(ctx, su, dto.ClaseRequest{Nombre: "Pilates", ActividadID: act.ID, SucursalID: &a.ID, Cupo: 5})
	var rr *gymerr.ReactivationRequired
	require.ErrorAs(t, err, &rr)
	assert.Equal(t, first.ID, rr.ID)
}

func TestClase_ActiveNameIndexPerBranch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustSucursal(t, db, "A")
	b := mustSucursal(t, db, "B")
	act := mustActividad(t, db, "Pilates")
	repo := repository.NewClaseRepository(db)

	nueva := func(sucursalID uuid.UUID, nombre string) *model.Clase {
		return &model.Clase{Nombre: nombre, ActividadID: act.ID, SucursalID: sucursalID, Cupo: 5, Activo: true}
	}
	vieja := nueva(a.ID, "Pilates")
	require.NoError(t, repo.CreateTx(ctx, nil, vieja))
	require.NoError(t, repo.CreateTx(ctx, nil, nueva(b.ID, "Pilates")), "same name in another branch")

	err := repo.CreateTx(ctx, nil, nueva(a.ID, "pilates"))
	assert.True(t, repository.IsDuplicate(err), "two active classes in one branch share a name: %v", err)

	// Once retired, the name is free; bringing the old class back is then a
	// field error rather than a second active row.
	require.NoError(t, repo.Desactivar(ctx, vieja.ID))
	require.NoError(t, repo.CreateTx(ctx, nil, nueva(a.ID, "Pilates")))

	err = newClaseService(db).Reactivar(ctx, vieja.ID)
	var ve *gymerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "nombre")
}

func TestAsignarIntegrantes_ReplacesSets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	suc := mustSucursal(t, db, "Central")
	act := mustActividad(t, db, "Zumba")
	a := mustMiembro(t, db, "Ana", "30111222")
	b := mustMiembro(t, db, "Beto", "30111333")
	c3 := mustMiembro(t, db, "Caro", "30111444")
	svc := newClaseService(db)

	c, err := svc.Crear(ctx, superUser(), dto.ClaseRequest{
		Nombre: "Zumba", ActividadID: act.ID, SucursalID: &suc.ID, Cupo: 2,
		MiembroIDs: []uuid.UUID{a.ID},
	})
	require.NoError(t, err)

	got, err := svc.AsignarIntegrantes(ctx, c.ID, dto.IntegrantesRequest{MiembroIDs: []uuid.UUID{b.ID, c3.ID}})
	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, m := range got.Miembros {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{b.ID, c3.ID}, ids, "full replacement, not a merge")
	assert.Equal(t, c.Version+1, got.Version)

	// Over capacity: rejected and the previous sets survive.
	_, err = svc.AsignarIntegrantes(ctx, c.ID, dto.IntegrantesRequest{MiembroIDs: []uuid.UUID{a.ID, b.ID, c3.ID}})
	assert.ErrorIs(t, err, gymerr.ErrCapacityExceeded)
	after, err := svc.Obtener(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, after.Miembros, 2)

	// Empty lists clear both sets.
	cleared, err := svc.AsignarIntegrantes(ctx, c.ID, dto.IntegrantesRequest{})
	require.NoError(t, err)
	assert.Empty(t, cleared.Miembros)
	assert.Zero(t, cleared.Inscriptos)

	_, err = svc.AsignarIntegrantes(ctx, uuid.New(), dto.IntegrantesRequest{})
	assert.ErrorIs(t, err, gymerr.ErrNotFound)
}

func TestActualizarClase_ReplacesAndChecksVersion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	suc := mustSucursal(t, db, "Central")
	act := mustActividad(t, db, "HIIT")
	a := mustMiembro(t, db, "Ana", "30111222")
	b := mustMiembro(t, db, "Beto", "30111333")
	svc := newClaseService(db)
	su := superUser()

	c, err := svc.Crear(ctx, su, dto.ClaseRequest{
		Nombre: "HIIT", ActividadID: act.ID, SucursalID: &suc.ID, Cupo: 3,
		MiembroIDs: []uuid.UUID{a.ID},
		Horarios:   []dto.HorarioRequest{{DiaSemana: 2, Inicio: "18:00", Fin: "19:00"}},
	})
	require.NoError(t, err)

	upd, err := svc.Actualizar(ctx, su, c.ID, dto.ActualizarClaseRequest{
		ClaseRequest: dto.ClaseRequest{
			Nombre: "HIIT avanzado", ActividadID: act.ID, SucursalID: &suc.ID, Cupo: 3,
			MiembroIDs: []uuid.UUID{b.ID},
			Horarios:   []dto.HorarioRequest{{DiaSemana: 4, Inicio: "07:30", Fin: "08:15"}},
		},
		Version: c.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "HIIT avanzado", upd.Nombre)
	require.Len(t, upd.Miembros, 1)
	assert.Equal(t, b.ID, upd.Miembros[0].ID)
	require.Len(t, upd.Horarios, 1)
	assert.Equal(t, "07:30", upd.Horarios[0].Inicio)

	_, err = svc.Actualizar(ctx, su, c.ID, dto.ActualizarClaseRequest{
		ClaseRequest: dto.ClaseRequest{Nombre: "HIIT", ActividadID: act.ID, SucursalID: &suc.ID, Cupo: 3},
		Version:      c.Version,
	})
	assert.ErrorIs(t, err, gymerr.ErrConflict)

	// Shrinking capacity below the member set is refused up front.
	_, err = svc.Actualizar(ctx, su, c.ID, dto.ActualizarClaseRequest{
		ClaseRequest: dto.ClaseRequest{
			Nombre: "HIIT", ActividadID: act.ID, SucursalID: &suc.ID, Cupo: 1,
			MiembroIDs: []uuid.UUID{a.ID, b.ID},
		},
		Version: upd.Version,
	})
	assert.ErrorIs(t, err, gymerr.ErrCapacityExceeded)
}

func TestCrearClase_InvalidSchedule(t *testing.T) {
	db := newTestDB(t)
	suc := mustSucursal(t, db, "Central")
	act := mustActividad(t, db, "Stretching")
	svc := newClaseService(db)

	_, err := svc.Crear(context.Background(), superUser(), dto.ClaseRequest{
		Nombre: "Stretching", ActividadID: act.ID, SucursalID: &suc.ID, Cupo: 3,
		Horarios: []dto.HorarioRequest{{DiaSemana: 1, Inicio: "10:00", Fin: "09:00"}},
	})
	var ve *gymerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "horarios[0].fin")
}
