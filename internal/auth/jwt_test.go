package auth

import (
	"testing"
	"time"

	"gymdesk/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUsuario(rol model.Rol) *model.Usuario {
	suc := uuid.New()
	return &model.Usuario{ID: uuid.New(), Username: "lucia", Rol: rol, SucursalID: &suc}
}

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", "gymdesk")
	u := testUsuario(model.RolManager)

	tok, err := svc.GenerateToken(u, TokenAcceso, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok, TokenAcceso)
	require.NoError(t, err)
	id, err := claims.Identidad()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UsuarioID)
	assert.Equal(t, model.RolManager, id.Rol)
	require.NotNil(t, id.SucursalID)
	assert.Equal(t, *u.SucursalID, *id.SucursalID)
}

func TestValidate_WrongKindRejected(t *testing.T) {
	svc := NewJWTService("secret", "gymdesk")
	tok, err := svc.GenerateToken(testUsuario(model.RolMember), TokenRefresco, time.Hour)
	require.NoError(t, err)

	_, err = svc.ValidateToken(tok, TokenAcceso)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	svc := NewJWTService("secret", "gymdesk")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := svc.GenerateToken(testUsuario(model.RolMember), TokenAcceso, time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(tok, TokenAcceso)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, err := NewJWTService("one", "gymdesk").GenerateToken(testUsuario(model.RolMember), TokenAcceso, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTService("two", "gymdesk").ValidateToken(tok, TokenAcceso)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_UnknownRoleRejected(t *testing.T) {
	c := &Claims{UserID: uuid.New(), Rol: "administrador"}
	_, err := c.Identidad()
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAlcanceSucursal(t *testing.T) {
	suc := uuid.New()
	assert.Nil(t, Identidad{Rol: model.RolSuperUser, SucursalID: &suc}.AlcanceSucursal())
	assert.Equal(t, &suc, Identidad{Rol: model.RolAdministrator, SucursalID: &suc}.AlcanceSucursal())
	assert.Nil(t, Identidad{Rol: model.RolManager}.AlcanceSucursal())
}
