package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MiembroService interface {
	Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.MiembroResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.MiembroResponse, error)
	Crear(ctx context.Context, req dto.MiembroRequest) (*dto.MiembroResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMiembroRequest) (*dto.MiembroResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type miembroService struct {
	repo     repository.MiembroRepository
	usuarios repository.UsuarioRepository
}

func NewMiembroService(repo repository.MiembroRepository, usuarios repository.UsuarioRepository) MiembroService {
	return &miembroService{repo: repo, usuarios: usuarios}
}

func (s *miembroService) Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.MiembroResponse, error) {
	list, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MiembroResponse, 0, len(list))
	for i := range list {
		out = append(out, mapMiembro(&list[i]))
	}
	return out, nil
}

func (s *miembroService) Obtener(ctx context.Context, id uuid.UUID) (*dto.MiembroResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	resp := mapMiembro(m)
	return &resp, nil
}

// Crear registers a member from the front desk. DNI is unique across every
// member ever created, so a clash with an inactive one is still a duplicate.
func (s *miembroService) Crear(ctx context.Context, req dto.MiembroRequest) (*dto.MiembroResponse, error) {
	nacimiento, err := parseFechaNacimiento(req.FechaNacimiento)
	if err != nil {
		return nil, err
	}
	if err := s.verificarUsuario(ctx, req.UsuarioID); err != nil {
		return nil, err
	}
	dni := strings.TrimSpace(req.DNI)
	if _, err := s.repo.FindByDNI(ctx, dni, nil); err == nil {
		return nil, gymerr.ErrDuplicateDNI
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &model.Miembro{
		Persona:         personaDe(req.PersonaRequest),
		FechaNacimiento: nacimiento,
		Direccion:       req.Direccion,
		Genero:          req.Genero,
		Notas:           req.Notas,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if repository.IsDuplicate(err) {
			return nil, gymerr.ErrDuplicateDNI
		}
		return nil, err
	}
	resp := mapMiembro(m)
	return &resp, nil
}

func (s *miembroService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMiembroRequest) (*dto.MiembroResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, noEncontrado(err)
	}
	nacimiento, err := parseFechaNacimiento(req.FechaNacimiento)
	if err != nil {
		return nil, err
	}
	if err := s.verificarUsuario(ctx, req.UsuarioID); err != nil {
		return nil, err
	}
	dni := strings.TrimSpace(req.DNI)
	if _, err := s.repo.FindByDNI(ctx, dni, &id); err == nil {
		return nil, gymerr.ErrDuplicateDNI
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.repo.Update(ctx, id, req.Version, map[string]any{
		"nombre":           req.Nombre,
		"apellido":         req.Apellido,
		"dni":              dni,
		"telefono":         req.Telefono,
		"email":            strings.TrimSpace(req.Email),
		"usuario_id":       req.UsuarioID,
		"fecha_nacimiento": nacimiento,
		"direccion":        req.Direccion,
		"genero":           req.Genero,
		"notas":            req.Notas,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, gymerr.ErrDuplicateDNI
		}
		return nil, err
	}
	return s.Obtener(ctx, id)
}

func (s *miembroService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *miembroService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

func (s *miembroService) verificarUsuario(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.usuarios.FindByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gymerr.NewValidation("usuario_id", "la cuenta no existe")
		}
		return err
	}
	return nil
}

func personaDe(req dto.PersonaRequest) model.Persona {
	return model.Persona{
		Nombre:    strings.TrimSpace(req.Nombre),
		Apellido:  strings.TrimSpace(req.Apellido),
		DNI:       strings.TrimSpace(req.DNI),
		Telefono:  req.Telefono,
		Email:     strings.TrimSpace(req.Email),
		UsuarioID: req.UsuarioID,
	}
}

func parseFechaNacimiento(s string) (*datatypes.Date, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.FormatoFecha, s)
	if err != nil {
		return nil, gymerr.NewValidation("fecha_nacimiento", "formato invalido, se espera AAAA-MM-DD")
	}
	if t.After(time.Now()) {
		return nil, gymerr.NewValidation("fecha_nacimiento", "no puede ser futura")
	}
	d := datatypes.Date(t)
	return &d, nil
}

func mapMiembro(m *model.Miembro) dto.MiembroResponse {
	resp := dto.MiembroResponse{
		ID:        m.ID,
		Nombre:    m.Nombre,
		Apellido:  m.Apellido,
		DNI:       m.DNI,
		Telefono:  m.Telefono,
		Email:     m.Email,
		UsuarioID: m.UsuarioID,
		Direccion: m.Direccion,
		Genero:    m.Genero,
		Notas:     m.Notas,
		Activo:    m.Activo,
		Version:   m.Version,
	}
	if m.FechaNacimiento != nil {
		resp.FechaNacimiento = fecha(*m.FechaNacimiento)
	}
	if l := m.Licencia; l != nil {
		resp.Licencia = &dto.LicenciaResponse{
			ID: l.ID, CodigoBarras: l.CodigoBarras,
			Desde: fecha(l.Desde), Hasta: fecha(l.Hasta), Activo: l.Activo,
		}
	}
	if ms := m.Membresia; ms != nil {
		plan := dto.RefResponse{ID: ms.TipoMembresiaID}
		if ms.TipoMembresia != nil {
			plan.Nombre = ms.TipoMembresia.Nombre
		}
		resp.Membresia = &dto.MembresiaResponse{
			ID: ms.ID, Plan: plan, Estado: ms.Estado,
			PrecioPagado: ms.PrecioPagado, Deuda: ms.Deuda, Descuento: ms.Descuento,
			Desde: fecha(ms.Desde), Hasta: fecha(ms.Hasta), Activo: ms.Activo,
		}
	}
	return resp
}
