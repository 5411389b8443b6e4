package infra

import (
	"fmt"
	"strings"

	"gymdesk/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// NewDatabase opens the store named by dsn and migrates it. A dsn starting
// with sqlite:// selects the embedded SQLite driver (local work and tests);
// anything else is handed to the postgres driver.
func NewDatabase(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, sqlitePrefix) {
		dialector = sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix))
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table, then applies the DDL that gorm
// tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent statements valid on both postgres and
// SQLite.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Persona is embedded in miembros and profesores; only members carry
		// a global DNI uniqueness, so the index cannot live on the struct tag.
		{"unique dni on miembros",
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_miembros_dni ON miembros (dni)`},
		// Reference names are unique among active rows only, so an inactive
		// name can be reused once its holder is retired.
		{"active branch names",
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_sucursales_nombre_activo ON sucursales (lower(nombre)) WHERE activo`},
		{"active activity names",
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_actividades_nombre_activo ON actividades (lower(nombre)) WHERE activo`},
		{"active plan names",
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_tipos_membresia_nombre_activo ON tipos_membresia (lower(nombre)) WHERE activo`},
		{"active specialty names",
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_especialidades_nombre_activo ON especialidades (lower(nombre)) WHERE activo`},
		{"active class names per branch",
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_clases_sucursal_nombre_activo ON clases (sucursal_id, lower(nombre)) WHERE activo`},
		{"attendance lookup by day",
			`CREATE INDEX IF NOT EXISTS idx_asistencias_dia ON asistencias (dia)`},
		{"debtors report",
			`CREATE INDEX IF NOT EXISTS idx_membresias_deuda ON membresias (deuda)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
