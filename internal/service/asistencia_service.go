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

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AsistenciaService interface {
	// RegistrarAsistencia checks a member in by license barcode. Every
	// failure is a rule outcome and leaves nothing written; a code that
	// matches no license, mistyped check digit included, is ErrNotFound.
	RegistrarAsistencia(ctx context.Context, req dto.RegistrarAsistenciaRequest) (*dto.AsistenciaResponse, error)
}

type asistenciaService struct {
	repo     repository.AsistenciaRepository
	miembros repository.MiembroRepository
	clases   repository.ClaseRepository
	now      func() time.Time
}

func NewAsistenciaService(repo repository.AsistenciaRepository, miembros repository.MiembroRepository, clases repository.ClaseRepository) AsistenciaService {
	return &asistenciaService{repo: repo, miembros: miembros, clases: clases, now: time.Now}
}

func (s *asistenciaService) RegistrarAsistencia(ctx context.Context, req dto.RegistrarAsistenciaRequest) (*dto.AsistenciaResponse, error) {
	m, err := s.miembros.FindByCodigoBarras(ctx, req.CodigoBarras)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no existe la licencia %s: %w", req.CodigoBarras, gymerr.ErrNotFound)
		}
		return nil, err
	}
	if !m.Activo {
		return nil, fmt.Errorf("miembro %s: %w", m.NombreCompleto(), gymerr.ErrInactive)
	}

	c, err := s.clases.FindByID(ctx, req.ClaseID)
	if err != nil {
		return nil, noEncontrado(err)
	}
	if !c.Activo {
		return nil, fmt.Errorf("clase %s: %w", c.Nombre, gymerr.ErrInactive)
	}
	inscripto, err := s.clases.EstaInscriptoTx(ctx, nil, c.ID, m.ID)
	if err != nil {
		return nil, err
	}
	if !inscripto {
		return nil, gymerr.ErrNotEnrolled
	}

	now := s.now().UTC()
	dia := now.Format(model.FormatoDia)
	existe, err := s.repo.ExisteEnDia(ctx, m.ID, c.ID, dia)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, gymerr.ErrDuplicateAttendance
	}

	a := &model.Asistencia{MiembroID: m.ID, ClaseID: c.ID, Dia: dia, Fecha: now}
	if err := s.repo.Create(ctx, a); err != nil {
		// Two desks scanning the same card at once: the unique index wins.
		if repository.IsDuplicate(err) {
			return nil, gymerr.ErrDuplicateAttendance
		}
		return nil, err
	}
	log.Info().Str("miembro_id", m.ID.String()).Str("clase_id", c.ID.String()).Msg("asistencia registrada")
	return mapAsistencia(a, m.NombreCompleto(), c.Nombre), nil
}

func mapAsistencia(a *model.Asistencia, miembro, clase string) *dto.AsistenciaResponse {
	return &dto.AsistenciaResponse{
		ID:        a.ID,
		MiembroID: a.MiembroID,
		Miembro:   miembro,
		ClaseID:   a.ClaseID,
		Clase:     clase,
		Fecha:     a.Fecha,
	}
}
