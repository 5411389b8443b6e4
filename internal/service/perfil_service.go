package service

import (
	"context"

	"gymdesk/internal/auth"
	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/infra"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
)

// PerfilService serves the member-facing pages: branch browsing, the
// caller's own profile and the license QR.
type PerfilService interface {
	Sucursales(ctx context.Context) ([]dto.SucursalResponse, error)
	// ClasesDeSucursal lists the active classes of an active branch with
	// their occupancy but without the member list.
	ClasesDeSucursal(ctx context.Context, sucursalID uuid.UUID) ([]dto.ClaseResponse, error)
	MiPerfil(ctx context.Context, caller auth.Identidad) (*dto.MiembroResponse, error)
	LicenciaQR(ctx context.Context, caller auth.Identidad, size int) ([]byte, error)
}

type perfilService struct {
	sucursales repository.SucursalRepository
	clases     repository.ClaseRepository
	miembros   repository.MiembroRepository
}

func NewPerfilService(sucursales repository.SucursalRepository, clases repository.ClaseRepository, miembros repository.MiembroRepository) PerfilService {
	return &perfilService{sucursales: sucursales, clases: clases, miembros: miembros}
}

func (s *perfilService) Sucursales(ctx context.Context) ([]dto.SucursalResponse, error) {
	list, err := s.sucursales.List(ctx, dto.FiltroActivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SucursalResponse, 0, len(list))
	for i := range list {
		out = append(out, mapSucursal(&list[i]))
	}
	return out, nil
}

func (s *perfilService) ClasesDeSucursal(ctx context.Context, sucursalID uuid.UUID) ([]dto.ClaseResponse, error) {
	suc, err := s.sucursales.FindByID(ctx, sucursalID)
	if err != nil {
		return nil, noEncontrado(err)
	}
	if !suc.Activo {
		return nil, gymerr.ErrNotFound
	}
	list, err := s.clases.List(ctx, dto.FiltroActivos, &sucursalID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	ocupacion, err := s.clases.Ocupacion(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClaseResponse, 0, len(list))
	for i := range list {
		resp := mapClase(&list[i])
		resp.Inscriptos = int(ocupacion[list[i].ID])
		resp.Miembros = nil
		out = append(out, resp)
	}
	return out, nil
}

func (s *perfilService) MiPerfil(ctx context.Context, caller auth.Identidad) (*dto.MiembroResponse, error) {
	m, err := s.miembros.FindByUsuarioID(ctx, caller.UsuarioID)
	if err != nil {
		return nil, noEncontrado(err)
	}
	resp := mapMiembro(m)
	return &resp, nil
}

func (s *perfilService) LicenciaQR(ctx context.Context, caller auth.Identidad, size int) ([]byte, error) {
	m, err := s.miembros.FindByUsuarioID(ctx, caller.UsuarioID)
	if err != nil {
		return nil, noEncontrado(err)
	}
	if m.Licencia == nil {
		return nil, gymerr.ErrNotFound
	}
	return infra.LicenciaQR(m.Licencia.CodigoBarras, size)
}
