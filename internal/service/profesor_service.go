package service

import (
	"context"
	"errors"

	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProfesorService interface {
	Listar(ctx context.Context, filtro dto.FiltroEstado, sucursalID *uuid.UUID) ([]dto.ProfesorResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProfesorResponse, error)
	Crear(ctx context.Context, req dto.ProfesorRequest) (*dto.ProfesorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProfesorRequest) (*dto.ProfesorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type profesorService struct {
	repo           repository.ProfesorRepository
	sucursales     repository.SucursalRepository
	especialidades repository.EspecialidadRepository
}

func NewProfesorService(repo repository.ProfesorRepository, sucursales repository.SucursalRepository, especialidades repository.EspecialidadRepository) ProfesorService {
	return &profesorService{repo: repo, sucursales: sucursales, especialidades: especialidades}
}

func (s *profesorService) Listar(ctx context.Context, filtro dto.FiltroEstado, sucursalID *uuid.UUID) ([]dto.ProfesorResponse, error) {
	list, err := s.repo.List(ctx, filtro, sucursalID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfesorResponse, 0, len(list))
	for i := range list {
		out = append(out, mapProfesor(&list[i]))
	}
	return out, nil
}

func (s *profesorService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProfesorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	resp := mapProfesor(p)
	return &resp, nil
}

// Crear enforces DNI and email uniqueness among coaches with the usual
// duplicate policy and stores the coach with its specialties and schedule.
func (s *profesorService) Crear(ctx context.Context, req dto.ProfesorRequest) (*dto.ProfesorResponse, error) {
	persona := personaDe(req.PersonaRequest)
	existente, err := s.repo.FindConflicto(ctx, persona.DNI, persona.Email, nil)
	var reg model.Registro
	if err == nil {
		reg = *existente
	}
	if err := verificarAlta("un profesor", campoConflicto(existente, persona.DNI), reg, err); err != nil {
		return nil, err
	}
	if err := s.verificarSucursal(ctx, req.SucursalID); err != nil {
		return nil, err
	}
	franjas, err := parseFranjas(req.Horarios)
	if err != nil {
		return nil, err
	}
	especialidades, err := s.resolverEspecialidades(ctx, req.EspecialidadIDs)
	if err != nil {
		return nil, err
	}

	p := &model.Profesor{
		Persona:        persona,
		SucursalID:     req.SucursalID,
		Estado:         req.Estado,
		Activo:         true,
		Especialidades: especialidades,
		Horarios:       horariosProfesor(franjas),
	}
	if err := s.repo.CreateTx(ctx, nil, p); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, p.ID)
}

func (s *profesorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProfesorRequest) (*dto.ProfesorResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, noEncontrado(err)
	}
	persona := personaDe(req.PersonaRequest)
	existente, err := s.repo.FindConflicto(ctx, persona.DNI, persona.Email, &id)
	if err := verificarEdicion("un profesor", campoConflicto(existente, persona.DNI), err); err != nil {
		return nil, err
	}
	if err := s.verificarSucursal(ctx, req.SucursalID); err != nil {
		return nil, err
	}
	franjas, err := parseFranjas(req.Horarios)
	if err != nil {
		return nil, err
	}
	especialidades, err := s.resolverEspecialidades(ctx, req.EspecialidadIDs)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		err := s.repo.UpdateTx(ctx, tx, id, req.Version, map[string]any{
			"nombre":      persona.Nombre,
			"apellido":    persona.Apellido,
			"dni":         persona.DNI,
			"telefono":    persona.Telefono,
			"email":       persona.Email,
			"usuario_id":  persona.UsuarioID,
			"sucursal_id": req.SucursalID,
			"estado":      req.Estado,
		})
		if err != nil {
			return err
		}
		if err := s.repo.ReemplazarEspecialidadesTx(ctx, tx, id, especialidades); err != nil {
			return err
		}
		return s.repo.ReemplazarHorariosTx(ctx, tx, id, horariosProfesor(franjas))
	})
	if err != nil {
		return nil, err
	}
	return s.Obtener(ctx, id)
}

func (s *profesorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *profesorService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

func (s *profesorService) verificarSucursal(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sucursales.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gymerr.NewValidation("sucursal_id", "la sucursal no existe")
		}
		return err
	}
	return nil
}

// resolverEspecialidades drops ids that do not resolve, like classroom sets.
func (s *profesorService) resolverEspecialidades(ctx context.Context, ids []uuid.UUID) ([]model.Especialidad, error) {
	ids = uniqueIDs(ids)
	list, err := s.especialidades.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(list) != len(ids) {
		log.Warn().Int("pedidas", len(ids)).Int("resueltas", len(list)).Msg("especialidades inexistentes omitidas")
	}
	return list, nil
}

// campoConflicto names the field a coach clash is reported on.
func campoConflicto(p *model.Profesor, dni string) string {
	if p != nil && p.DNI != dni {
		return "email"
	}
	return "dni"
}

func horariosProfesor(franjas []model.Franja) []model.HorarioProfesor {
	out := make([]model.HorarioProfesor, 0, len(franjas))
	for _, f := range franjas {
		out = append(out, model.HorarioProfesor{Franja: f})
	}
	return out
}

func mapProfesor(p *model.Profesor) dto.ProfesorResponse {
	resp := dto.ProfesorResponse{
		ID:             p.ID,
		Nombre:         p.Nombre,
		Apellido:       p.Apellido,
		DNI:            p.DNI,
		Telefono:       p.Telefono,
		Email:          p.Email,
		UsuarioID:      p.UsuarioID,
		SucursalID:     p.SucursalID,
		Estado:         p.Estado,
		Activo:         p.Activo,
		Version:        p.Version,
		Especialidades: make([]dto.RefResponse, 0, len(p.Especialidades)),
		Horarios:       make([]dto.HorarioResponse, 0, len(p.Horarios)),
	}
	for _, e := range p.Especialidades {
		resp.Especialidades = append(resp.Especialidades, dto.RefResponse{ID: e.ID, Nombre: e.Nombre})
	}
	for _, h := range p.Horarios {
		resp.Horarios = append(resp.Horarios, mapFranja(h.Franja))
	}
	return resp
}
