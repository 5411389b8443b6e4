// Package gymerr defines the outcomes shared by repositories, services and
// handlers. Rule violations are expected results the caller shows to the
// user; anything not listed here is an infrastructure failure.
package gymerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("registro no encontrado")
	ErrConflict            = errors.New("el registro fue modificado o eliminado por otro usuario")
	ErrInactive            = errors.New("el registro está inactivo")
	ErrCapacityExceeded    = errors.New("la clase no tiene cupo disponible")
	ErrAlreadyEnrolled     = errors.New("el miembro ya está inscripto en la clase")
	ErrNotEnrolled         = errors.New("el miembro no está inscripto en la clase")
	ErrDuplicateAttendance = errors.New("la asistencia de hoy ya fue registrada")
	ErrDuplicateDNI        = errors.New("ya existe un miembro con ese DNI")
	ErrAlreadyMember       = errors.New("la cuenta ya es miembro")
	ErrPurchaseFailed      = errors.New("no se pudo completar la compra")
	ErrForbidden           = errors.New("permisos insuficientes")
	ErrInvalidCredentials  = errors.New("credenciales invalidas")
)

// ValidationError carries field-scoped messages for a rejected create/edit.
type ValidationError struct {
	Fields map[string]string
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// ReactivationRequired is returned by a create whose uniqueness key matches
// an inactive row. Nothing was written; the caller decides whether to
// reactivate ID.
type ReactivationRequired struct {
	Entidad string
	ID      uuid.UUID
}

func (e *ReactivationRequired) Error() string {
	return fmt.Sprintf("existe %s inactivo con esos datos (id %s): reactivar en lugar de crear", e.Entidad, e.ID)
}

// IsRuleViolation reports whether err is an expected, user-facing outcome.
func IsRuleViolation(err error) bool {
	var ve *ValidationError
	var rr *ReactivationRequired
	if errors.As(err, &ve) || errors.As(err, &rr) {
		return true
	}
	for _, target := range []error{
		ErrNotFound, ErrConflict, ErrInactive, ErrCapacityExceeded, ErrAlreadyEnrolled,
		ErrNotEnrolled, ErrDuplicateAttendance, ErrDuplicateDNI, ErrAlreadyMember,
		ErrForbidden, ErrInvalidCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
