package service

import (
	"context"
	"testing"

	"gymdesk/internal/auth"
	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) (AuthService, *auth.JWTService) {
	jwtSvc := auth.NewJWTService(testCfg.JWTSecret, "gymdesk-test")
	return NewAuthService(repository.NewUsuarioRepository(db), repository.NewSucursalRepository(db), jwtSvc, testCfg), jwtSvc
}

func TestRegistrarYLogin(t *testing.T) {
	db := newTestDB(t)
	svc, jwtSvc := newAuthService(db)
	ctx := context.Background()

	reg, err := svc.Registrar(ctx, dto.RegistroRequest{
		Username: "Lucia", Nombre: "Lucía", Apellido: "Gómez", Email: "lucia@example.com", Password: "clave-segura",
	})
	require.NoError(t, err)
	assert.Equal(t, "default", reg.User.Rol)
	assert.Nil(t, reg.User.SucursalID)

	// Username matching ignores case.
	login, err := svc.Login(ctx, dto.LoginRequest{Username: "lucia", Password: "clave-segura"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.UltimoAcceso)

	id, err := svc.Authenticate(ctx, "LUCIA", "clave-segura")
	require.NoError(t, err)
	assert.Equal(t, model.RolDefault, id.Rol)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "lucia", Password: "otra-clave"})
	assert.ErrorIs(t, err, gymerr.ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "clave-segura"})
	assert.ErrorIs(t, err, gymerr.ErrInvalidCredentials)

	_, err = svc.Registrar(ctx, dto.RegistroRequest{
		Username: "otra", Nombre: "Otra", Apellido: "Persona", Email: "LUCIA@example.com", Password: "clave-segura",
	})
	var ve *gymerr.ValidationError
	require.ErrorAs(t, err, &ve)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	claims, err := jwtSvc.ValidateToken(refreshed.AccessToken, auth.TokenAcceso)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, gymerr.ErrInvalidCredentials, "access tokens cannot refresh")

	require.NoError(t, svc.DesactivarUsuario(ctx, reg.User.ID))
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "lucia", Password: "clave-segura"})
	assert.ErrorIs(t, err, gymerr.ErrInvalidCredentials, "inactive accounts cannot log in")
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, gymerr.ErrInvalidCredentials)
}

func TestUsuarios_AdminLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(db)
	ctx := context.Background()
	suc := mustSucursal(t, db, "Central")

	u, err := svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "gerente", Nombre: "Gina", Apellido: "Rossi", Email: "gina@example.com",
		Password: "clave-segura", Rol: "manager", SucursalID: &suc.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "manager", u.Rol)

	// Email clash with an active account.
	_, err = svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "otro", Nombre: "Otro", Apellido: "Usuario", Email: "GINA@example.com",
		Password: "clave-segura", Rol: "coach",
	})
	var ve *gymerr.ValidationError
	require.ErrorAs(t, err, &ve)

	// Username clash with an inactive one asks for reactivation.
	require.NoError(t, svc.DesactivarUsuario(ctx, u.ID))
	_, err = svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "Gerente", Nombre: "Otro", Apellido: "Usuario", Email: "nuevo@example.com",
		Password: "clave-segura", Rol: "coach",
	})
	var rr *gymerr.ReactivationRequired
	require.ErrorAs(t, err, &rr)
	assert.Equal(t, u.ID, rr.ID)
	require.NoError(t, svc.ReactivarUsuario(ctx, u.ID))

	got, err := svc.ObtenerUsuario(ctx, u.ID)
	require.NoError(t, err)
	upd, err := svc.ActualizarUsuario(ctx, u.ID, dto.ActualizarUsuarioRequest{
		Version: got.Version, Username: "gerente", Nombre: "Gina", Apellido: "Rossi",
		Email: "gina@example.com", Rol: "administrator",
	})
	require.NoError(t, err)
	assert.Equal(t, "administrator", upd.Rol)
	assert.Nil(t, upd.SucursalID)

	_, err = svc.ActualizarUsuario(ctx, u.ID, dto.ActualizarUsuarioRequest{
		Version: got.Version, Username: "gerente", Nombre: "Gina", Apellido: "Rossi",
		Email: "gina@example.com", Rol: "manager",
	})
	assert.ErrorIs(t, err, gymerr.ErrConflict)

	_, err = svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "rolmalo", Nombre: "Rol", Apellido: "Malo", Email: "rm@example.com",
		Password: "clave-segura", Rol: "jefe",
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "rol")
}

func TestAsegurarSuperUsuario_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(db)
	ctx := context.Background()

	created, err := svc.AsegurarSuperUsuario(ctx, "admin", "admin@example.com", "admin1234")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.AsegurarSuperUsuario(ctx, "admin2", "admin2@example.com", "admin1234")
	require.NoError(t, err)
	assert.False(t, created)

	id, err := svc.Authenticate(ctx, "admin", "admin1234")
	require.NoError(t, err)
	assert.Equal(t, model.RolSuperUser, id.Rol)
	assert.Nil(t, id.AlcanceSucursal())
}
