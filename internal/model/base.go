package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Persona holds the identity fields shared by members and coaches.
// It is embedded, so its columns live in each owner's table.
type Persona struct {
	Nombre    string     `gorm:"not null"`
	Apellido  string     `gorm:"not null"`
	DNI       string     `gorm:"column:dni;size:20;not null;index"`
	Telefono  string     `gorm:"size:30"`
	Email     string     `gorm:"size:150;index"`
	UsuarioID *uuid.UUID `gorm:"type:uuid;index"`
}

func (p Persona) NombreCompleto() string {
	if p.Apellido == "" {
		return p.Nombre
	}
	return p.Nombre + " " + p.Apellido
}

// Vigencia is a validity window in whole days: [Desde, Hasta).
type Vigencia struct {
	Desde datatypes.Date `gorm:"not null"`
	Hasta datatypes.Date `gorm:"not null"`
}

// NuevaVigencia starts at the UTC calendar day of from and ends dias later.
func NuevaVigencia(from time.Time, dias int) Vigencia {
	d := time.Date(from.UTC().Year(), from.UTC().Month(), from.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return Vigencia{Desde: datatypes.Date(d), Hasta: datatypes.Date(d.AddDate(0, 0, dias))}
}

// NuevaVigenciaAnual is NuevaVigencia for exactly one calendar year.
func NuevaVigenciaAnual(from time.Time) Vigencia {
	d := time.Date(from.UTC().Year(), from.UTC().Month(), from.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return Vigencia{Desde: datatypes.Date(d), Hasta: datatypes.Date(d.AddDate(1, 0, 0))}
}

func (v Vigencia) Contiene(t time.Time) bool {
	return !t.Before(time.Time(v.Desde)) && t.Before(time.Time(v.Hasta))
}

// Franja is one weekly schedule slot.
type Franja struct {
	DiaSemana time.Weekday   `gorm:"not null"`
	Inicio    datatypes.Time `gorm:"not null"`
	Fin       datatypes.Time `gorm:"not null"`
}

// asignarID fills the primary key and the initial version before insert.
func asignarID(id *uuid.UUID, version *int) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if version != nil && *version == 0 {
		*version = 1
	}
}
