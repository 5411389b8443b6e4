package dto

// FiltroEstado selects rows by their active flag in listings.
type FiltroEstado string

const (
	FiltroActivos   FiltroEstado = "activos"
	FiltroInactivos FiltroEstado = "inactivos"
	FiltroTodos     FiltroEstado = "todos"
)

// ParseFiltroEstado defaults to active rows for empty or unknown values.
func ParseFiltroEstado(s string) FiltroEstado {
	switch FiltroEstado(s) {
	case FiltroInactivos:
		return FiltroInactivos
	case FiltroTodos:
		return FiltroTodos
	}
	return FiltroActivos
}

// FiltroDe maps the activeOnly switch of the listing screens.
func FiltroDe(soloActivos bool) FiltroEstado {
	if soloActivos {
		return FiltroActivos
	}
	return FiltroTodos
}

// ReactivarResponse is returned with 409 when a create hit an inactive duplicate.
type ReactivarResponse struct {
	Detail      string `json:"detail"`
	ReactivarID string `json:"reactivar_id"`
}

// MensajeResponse is a plain informational answer.
type MensajeResponse struct {
	Mensaje string `json:"mensaje"`
}
