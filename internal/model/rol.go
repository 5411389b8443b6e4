package model

import "fmt"

// Rol is the closed set of account roles. Values are persisted as-is.
type Rol string

const (
	RolSuperUser     Rol = "superuser"
	RolManager       Rol = "manager"
	RolAdministrator Rol = "administrator"
	RolCoach         Rol = "coach"
	RolMember        Rol = "member"
	RolDefault       Rol = "default"
)

// Roles lists every valid role in privilege order.
var Roles = []Rol{RolSuperUser, RolManager, RolAdministrator, RolCoach, RolMember, RolDefault}

// ParseRol converts a raw claim or request value into a Rol.
func ParseRol(s string) (Rol, error) {
	r := Rol(s)
	if !r.Valid() {
		return "", fmt.Errorf("rol desconocido %q", s)
	}
	return r, nil
}

func (r Rol) Valid() bool {
	switch r {
	case RolSuperUser, RolManager, RolAdministrator, RolCoach, RolMember, RolDefault:
		return true
	}
	return false
}

// EsPersonal reports whether the role belongs to back-office staff.
func (r Rol) EsPersonal() bool {
	switch r {
	case RolSuperUser, RolManager, RolAdministrator:
		return true
	case RolCoach, RolMember, RolDefault:
		return false
	}
	return false
}

func (r Rol) String() string { return string(r) }
