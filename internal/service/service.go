package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit-test mode with stub repos).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// noEncontrado maps a missing row to gymerr.ErrNotFound and passes the rest.
func noEncontrado(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gymerr.ErrNotFound
	}
	return err
}

// verificarAlta applies the create duplicate policy to the result of a
// uniqueness lookup: no match is fine, an active match is a field error and
// an inactive match asks the caller to reactivate it.
func verificarAlta(entidad, campo string, encontrado model.Registro, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if encontrado.EstaActivo() {
		return gymerr.NewValidation(campo, fmt.Sprintf("ya existe %s con ese valor", entidad))
	}
	return &gymerr.ReactivationRequired{Entidad: entidad, ID: encontrado.Clave()}
}

// verificarEdicion is the edit policy: any other row holding the key is a
// field error, whatever its state.
func verificarEdicion(entidad, campo string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return gymerr.NewValidation(campo, fmt.Sprintf("ya existe %s con ese valor", entidad))
}

// nombreDuplicado turns a unique-index violation on a name into the same
// field error the lookup would have produced. It covers the window between
// the lookup and the write.
func nombreDuplicado(entidad string, err error) error {
	if repository.IsDuplicate(err) {
		return gymerr.NewValidation("nombre", fmt.Sprintf("ya existe %s con ese valor", entidad))
	}
	return err
}

// ── Schedules ─────────────────────────────────────────────────────────────────

func parseFranjas(in []dto.HorarioRequest) ([]model.Franja, error) {
	out := make([]model.Franja, 0, len(in))
	for i, h := range in {
		inicio, err1 := time.Parse("15:04", h.Inicio)
		fin, err2 := time.Parse("15:04", h.Fin)
		if err1 != nil || err2 != nil {
			return nil, gymerr.NewValidation(fmt.Sprintf("horarios[%d]", i), "formato de hora invalido, se espera HH:MM")
		}
		if !fin.After(inicio) {
			return nil, gymerr.NewValidation(fmt.Sprintf("horarios[%d].fin", i), "debe ser posterior al inicio")
		}
		out = append(out, model.Franja{
			DiaSemana: time.Weekday(h.DiaSemana),
			Inicio:    datatypes.NewTime(inicio.Hour(), inicio.Minute(), 0, 0),
			Fin:       datatypes.NewTime(fin.Hour(), fin.Minute(), 0, 0),
		})
	}
	return out, nil
}

var diasSemana = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

func mapFranja(f model.Franja) dto.HorarioResponse {
	dia := ""
	if f.DiaSemana >= time.Sunday && f.DiaSemana <= time.Saturday {
		dia = diasSemana[f.DiaSemana]
	}
	return dto.HorarioResponse{
		DiaSemana: int(f.DiaSemana),
		Dia:       dia,
		Inicio:    hhmm(f.Inicio),
		Fin:       hhmm(f.Fin),
	}
}

// hhmm renders a datatypes.Time (nanoseconds since midnight) as "HH:MM".
func hhmm(t datatypes.Time) string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

func fecha(d datatypes.Date) string {
	return time.Time(d).Format(dto.FormatoFecha)
}

// uniqueIDs drops repeated ids keeping the first occurrence.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
