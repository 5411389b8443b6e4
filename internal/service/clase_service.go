package service

import (
	"context"
	"errors"
	"strings"

	"gymdesk/internal/auth"
	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ClaseService interface {
	Listar(ctx context.Context, caller auth.Identidad, filtro dto.FiltroEstado) ([]dto.ClaseResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClaseResponse, error)
	Crear(ctx context.Context, caller auth.Identidad, req dto.ClaseRequest) (*dto.ClaseResponse, error)
	Actualizar(ctx context.Context, caller auth.Identidad, id uuid.UUID, req dto.ActualizarClaseRequest) (*dto.ClaseResponse, error)
	// AsignarIntegrantes replaces both the coach and the member sets.
	AsignarIntegrantes(ctx context.Context, id uuid.UUID, req dto.IntegrantesRequest) (*dto.ClaseResponse, error)
	Inscribir(ctx context.Context, claseID, miembroID uuid.UUID) (*dto.InscripcionResponse, error)
	// InscribirCuenta enrolls the member record linked to the caller.
	InscribirCuenta(ctx context.Context, caller auth.Identidad, claseID uuid.UUID) (*dto.InscripcionResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

const claseEntidad = "una clase en la sucursal"

type claseService struct {
	repo        repository.ClaseRepository
	sucursales  repository.SucursalRepository
	actividades repository.ActividadRepository
	profesores  repository.ProfesorRepository
	miembros    repository.MiembroRepository
}

func NewClaseService(
	repo repository.ClaseRepository,
	sucursales repository.SucursalRepository,
	actividades repository.ActividadRepository,
	profesores repository.ProfesorRepository,
	miembros repository.MiembroRepository,
) ClaseService {
	return &claseService{
		repo:        repo,
		sucursales:  sucursales,
		actividades: actividades,
		profesores:  profesores,
		miembros:    miembros,
	}
}

func (s *claseService) Listar(ctx context.Context, caller auth.Identidad, filtro dto.FiltroEstado) ([]dto.ClaseResponse, error) {
	list, err := s.repo.List(ctx, filtro, caller.AlcanceSucursal())
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	ocupacion, err := s.repo.Ocupacion(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClaseResponse, 0, len(list))
	for i := range list {
		resp := mapClase(&list[i])
		resp.Inscriptos = int(ocupacion[list[i].ID])
		out = append(out, resp)
	}
	return out, nil
}

func (s *claseService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClaseResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	resp := mapClase(c)
	return &resp, nil
}

func (s *claseService) Crear(ctx context.Context, caller auth.Identidad, req dto.ClaseRequest) (*dto.ClaseResponse, error) {
	sucursalID, err := sucursalDestino(caller, req.SucursalID)
	if err != nil {
		return nil, err
	}
	if err := s.verificarReferencias(ctx, sucursalID, req.ActividadID); err != nil {
		return nil, err
	}
	nombre := strings.TrimSpace(req.Nombre)
	existente, err := s.repo.FindByNombre(ctx, sucursalID, nombre, nil)
	var reg model.Registro
	if err == nil {
		reg = *existente
	}
	if err := verificarAlta(claseEntidad, "nombre", reg, err); err != nil {
		return nil, err
	}
	franjas, err := parseFranjas(req.Horarios)
	if err != nil {
		return nil, err
	}
	profesores, miembros, err := s.resolverIntegrantes(ctx, req.ProfesorIDs, req.MiembroIDs)
	if err != nil {
		return nil, err
	}
	if len(miembros) > req.Cupo {
		return nil, gymerr.ErrCapacityExceeded
	}

	c := &model.Clase{
		Nombre:      nombre,
		Descripcion: req.Descripcion,
		ActividadID: req.ActividadID,
		SucursalID:  sucursalID,
		Cupo:        req.Cupo,
		Activo:      true,
		Horarios:    horariosClase(franjas),
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(ctx, tx, c); err != nil {
			return nombreDuplicado(claseEntidad, err)
		}
		return s.repo.ReemplazarIntegrantesTx(ctx, tx, c.ID, profesores, miembros)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("clase_id", c.ID.String()).Str("sucursal_id", sucursalID.String()).Msg("clase creada")
	return s.Obtener(ctx, c.ID)
}

// Actualizar rewrites the class and replaces its coach, member and schedule
// sets with the ones given. A caller confined to a branch can only edit that
// branch's classes and can never move one elsewhere.
func (s *claseService) Actualizar(ctx context.Context, caller auth.Identidad, id uuid.UUID, req dto.ActualizarClaseRequest) (*dto.ClaseResponse, error) {
	actual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	if alcance := caller.AlcanceSucursal(); alcance != nil && actual.SucursalID != *alcance {
		return nil, gymerr.ErrForbidden
	}
	sucursalID, err := sucursalDestino(caller, req.SucursalID)
	if err != nil {
		return nil, err
	}
	if err := s.verificarReferencias(ctx, sucursalID, req.ActividadID); err != nil {
		return nil, err
	}
	nombre := strings.TrimSpace(req.Nombre)
	_, err = s.repo.FindByNombre(ctx, sucursalID, nombre, &id)
	if err := verificarEdicion(claseEntidad, "nombre", err); err != nil {
		return nil, err
	}
	franjas, err := parseFranjas(req.Horarios)
	if err != nil {
		return nil, err
	}
	profesores, miembros, err := s.resolverIntegrantes(ctx, req.ProfesorIDs, req.MiembroIDs)
	if err != nil {
		return nil, err
	}
	if len(miembros) > req.Cupo {
		return nil, gymerr.ErrCapacityExceeded
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		err := s.repo.UpdateTx(ctx, tx, id, req.Version, map[string]any{
			"nombre":       nombre,
			"descripcion":  req.Descripcion,
			"actividad_id": req.ActividadID,
			"sucursal_id":  sucursalID,
			"cupo":         req.Cupo,
		})
		if err != nil {
			return nombreDuplicado(claseEntidad, err)
		}
		if err := s.repo.ReemplazarIntegrantesTx(ctx, tx, id, profesores, miembros); err != nil {
			return err
		}
		return s.repo.ReemplazarHorariosTx(ctx, tx, id, horariosClase(franjas))
	})
	if err != nil {
		return nil, err
	}
	return s.Obtener(ctx, id)
}

func (s *claseService) AsignarIntegrantes(ctx context.Context, id uuid.UUID, req dto.IntegrantesRequest) (*dto.ClaseResponse, error) {
	profesores, miembros, err := s.resolverIntegrantes(ctx, req.ProfesorIDs, req.MiembroIDs)
	if err != nil {
		return nil, err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return noEncontrado(err)
		}
		if len(miembros) > c.Cupo {
			return gymerr.ErrCapacityExceeded
		}
		if err := s.repo.ReemplazarIntegrantesTx(ctx, tx, id, profesores, miembros); err != nil {
			return err
		}
		return s.repo.UpdateTx(ctx, tx, id, c.Version, map[string]any{})
	})
	if err != nil {
		return nil, err
	}
	return s.Obtener(ctx, id)
}

// Inscribir adds one member under a row lock on the class, so the count and
// the insert cannot interleave with another enrollment.
func (s *claseService) Inscribir(ctx context.Context, claseID, miembroID uuid.UUID) (*dto.InscripcionResponse, error) {
	m, err := s.miembros.FindByID(ctx, miembroID)
	if err != nil {
		return nil, noEncontrado(err)
	}
	if !m.Activo {
		return nil, gymerr.ErrInactive
	}

	resp := &dto.InscripcionResponse{ClaseID: claseID, MiembroID: miembroID}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDForUpdate(ctx, tx, claseID)
		if err != nil {
			return noEncontrado(err)
		}
		if !c.Activo {
			return gymerr.ErrInactive
		}
		resp.Cupo = c.Cupo
		inscripto, err := s.repo.EstaInscriptoTx(ctx, tx, claseID, miembroID)
		if err != nil {
			return err
		}
		if inscripto {
			return gymerr.ErrAlreadyEnrolled
		}
		n, err := s.repo.ContarMiembrosTx(ctx, tx, claseID)
		if err != nil {
			return err
		}
		if n >= int64(c.Cupo) {
			return gymerr.ErrCapacityExceeded
		}
		if err := s.repo.AgregarMiembroTx(ctx, tx, claseID, miembroID); err != nil {
			if repository.IsDuplicate(err) {
				return gymerr.ErrAlreadyEnrolled
			}
			return err
		}
		resp.Inscriptos = int(n) + 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Mensaje = "inscripción confirmada"
	return resp, nil
}

func (s *claseService) InscribirCuenta(ctx context.Context, caller auth.Identidad, claseID uuid.UUID) (*dto.InscripcionResponse, error) {
	m, err := s.miembros.FindByUsuarioID(ctx, caller.UsuarioID)
	if err != nil {
		return nil, noEncontrado(err)
	}
	return s.Inscribir(ctx, claseID, m.ID)
}

func (s *claseService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *claseService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return nombreDuplicado(claseEntidad, s.repo.Reactivar(ctx, id))
}

// sucursalDestino returns the caller's own branch when it is confined to
// one, overriding whatever the request carried.
func sucursalDestino(caller auth.Identidad, pedida *uuid.UUID) (uuid.UUID, error) {
	if alcance := caller.AlcanceSucursal(); alcance != nil {
		return *alcance, nil
	}
	if pedida == nil || *pedida == uuid.Nil {
		return uuid.Nil, gymerr.NewValidation("sucursal_id", "es obligatoria")
	}
	return *pedida, nil
}

func (s *claseService) verificarReferencias(ctx context.Context, sucursalID, actividadID uuid.UUID) error {
	suc, err := s.sucursales.FindByID(ctx, sucursalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gymerr.NewValidation("sucursal_id", "la sucursal no existe")
		}
		return err
	}
	if !suc.Activo {
		return gymerr.NewValidation("sucursal_id", "la sucursal está inactiva")
	}
	act, err := s.actividades.FindByID(ctx, actividadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gymerr.NewValidation("actividad_id", "la actividad no existe")
		}
		return err
	}
	if !act.Activo {
		return gymerr.NewValidation("actividad_id", "la actividad está inactiva")
	}
	return nil
}

// resolverIntegrantes looks the ids up and silently drops the ones that do
// not resolve; the drop is logged.
func (s *claseService) resolverIntegrantes(ctx context.Context, profesorIDs, miembroIDs []uuid.UUID) ([]model.Profesor, []model.Miembro, error) {
	profesorIDs = uniqueIDs(profesorIDs)
	miembroIDs = uniqueIDs(miembroIDs)
	profesores, err := s.profesores.FindByIDs(ctx, profesorIDs)
	if err != nil {
		return nil, nil, err
	}
	miembros, err := s.miembros.FindByIDs(ctx, miembroIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(profesores) != len(profesorIDs) || len(miembros) != len(miembroIDs) {
		log.Warn().
			Int("profesores_pedidos", len(profesorIDs)).Int("profesores_resueltos", len(profesores)).
			Int("miembros_pedidos", len(miembroIDs)).Int("miembros_resueltos", len(miembros)).
			Msg("integrantes inexistentes omitidos")
	}
	return profesores, miembros, nil
}

func horariosClase(franjas []model.Franja) []model.HorarioClase {
	out := make([]model.HorarioClase, 0, len(franjas))
	for _, f := range franjas {
		out = append(out, model.HorarioClase{Franja: f})
	}
	return out
}

func mapClase(c *model.Clase) dto.ClaseResponse {
	resp := dto.ClaseResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Actividad:   dto.RefResponse{ID: c.ActividadID},
		Sucursal:    dto.RefResponse{ID: c.SucursalID},
		Cupo:        c.Cupo,
		Inscriptos:  len(c.Miembros),
		Activo:      c.Activo,
		Version:     c.Version,
		Horarios:    make([]dto.HorarioResponse, 0, len(c.Horarios)),
	}
	if c.Actividad != nil {
		resp.Actividad.Nombre = c.Actividad.Nombre
	}
	if c.Sucursal != nil {
		resp.Sucursal.Nombre = c.Sucursal.Nombre
	}
	for _, h := range c.Horarios {
		resp.Horarios = append(resp.Horarios, mapFranja(h.Franja))
	}
	for _, p := range c.Profesores {
		resp.Profesores = append(resp.Profesores, dto.RefResponse{ID: p.ID, Nombre: p.NombreCompleto()})
	}
	for _, m := range c.Miembros {
		resp.Miembros = append(resp.Miembros, dto.RefResponse{ID: m.ID, Nombre: m.NombreCompleto()})
	}
	return resp
}
