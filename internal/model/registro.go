package model

import "github.com/google/uuid"

// Registro is implemented by every entity with the active/inactive lifecycle.
type Registro interface {
	Clave() uuid.UUID
	EstaActivo() bool
}

func (s Sucursal) Clave() uuid.UUID      { return s.ID }
func (s Sucursal) EstaActivo() bool      { return s.Activo }
func (a Actividad) Clave() uuid.UUID     { return a.ID }
func (a Actividad) EstaActivo() bool     { return a.Activo }
func (t TipoMembresia) Clave() uuid.UUID { return t.ID }
func (t TipoMembresia) EstaActivo() bool { return t.Activo }
func (e Especialidad) Clave() uuid.UUID  { return e.ID }
func (e Especialidad) EstaActivo() bool  { return e.Activo }
func (u Usuario) Clave() uuid.UUID       { return u.ID }
func (u Usuario) EstaActivo() bool       { return u.Activo }
func (m Miembro) Clave() uuid.UUID       { return m.ID }
func (m Miembro) EstaActivo() bool       { return m.Activo }
func (p Profesor) Clave() uuid.UUID      { return p.ID }
func (p Profesor) EstaActivo() bool      { return p.Activo }
func (c Clase) Clave() uuid.UUID         { return c.ID }
func (c Clase) EstaActivo() bool         { return c.Activo }
