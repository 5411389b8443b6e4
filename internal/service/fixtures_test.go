package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/barcode"
	"gymdesk/internal/config"
	"gymdesk/internal/infra"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var testCfg = &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1, JWTRefreshHours: 2}

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func mustSucursal(t *testing.T, db *gorm.DB, nombre string) *model.Sucursal {
	t.Helper()
	s := &model.Sucursal{Nombre: nombre, Activo: true}
	require.NoError(t, repository.NewSucursalRepository(db).Create(context.Background(), s))
	return s
}

func mustActividad(t *testing.T, db *gorm.DB, nombre string) *model.Actividad {
	t.Helper()
	a := &model.Actividad{Nombre: nombre, DuracionMinutos: 60, Activo: true}
	require.NoError(t, repository.NewActividadRepository(db).Create(context.Background(), a))
	return a
}

func mustPlan(t *testing.T, db *gorm.DB, nombre string, precio int64, dias int) *model.TipoMembresia {
	t.Helper()
	p := &model.TipoMembresia{Nombre: nombre, DuracionDias: dias, Precio: decimal.NewFromInt(precio), Activo: true}
	require.NoError(t, repository.NewTipoMembresiaRepository(db).Create(context.Background(), p))
	return p
}

// mustMiembro stores an active member holding a license for its DNI.
func mustMiembro(t *testing.T, db *gorm.DB, nombre, dni string) *model.Miembro {
	t.Helper()
	m := &model.Miembro{
		Persona: model.Persona{Nombre: nombre, Apellido: "Test", DNI: dni},
		Activo:  true,
		Licencia: &model.Licencia{
			CodigoBarras: barcode.GenerateEAN13(dni),
			Vigencia:     model.NuevaVigenciaAnual(time.Now()),
			Activo:       true,
		},
	}
	require.NoError(t, repository.NewMiembroRepository(db).Create(context.Background(), m))
	return m
}

func mustUsuario(t *testing.T, db *gorm.DB, username string, rol model.Rol, sucursalID *uuid.UUID) *model.Usuario {
	t.Helper()
	hash, err := HashPassword("secreto123")
	require.NoError(t, err)
	u := &model.Usuario{
		Username:     username,
		Nombre:       "Nombre " + username,
		Apellido:     "Apellido",
		Email:        username + "@example.com",
		PasswordHash: hash,
		Rol:          rol,
		SucursalID:   sucursalID,
		Activo:       true,
	}
	require.NoError(t, repository.NewUsuarioRepository(db).Create(context.Background(), u))
	return u
}

func superUser() auth.Identidad {
	return auth.Identidad{UsuarioID: uuid.New(), Username: "root", Rol: model.RolSuperUser}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
