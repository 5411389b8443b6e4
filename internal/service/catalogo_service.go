package service

import (
	"context"

	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
)

// registroCatalogo is the constraint of the reference-data models.
type registroCatalogo interface {
	repository.Catalogo
	model.Registro
}

// catalogo holds the lifecycle steps shared by every reference-data service.
type catalogo[T registroCatalogo] struct {
	repo    repository.CatalogoRepository[T]
	entidad string
}

func (c catalogo[T]) obtener(ctx context.Context, id uuid.UUID) (*T, error) {
	v, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	return v, nil
}

func (c catalogo[T]) listar(ctx context.Context, filtro dto.FiltroEstado) ([]T, error) {
	return c.repo.List(ctx, filtro)
}

func (c catalogo[T]) crear(ctx context.Context, v *T, nombre string) error {
	existente, err := c.repo.FindByNombre(ctx, nombre, nil)
	var reg model.Registro
	if err == nil {
		reg = *existente
	}
	if err := verificarAlta(c.entidad, "nombre", reg, err); err != nil {
		return err
	}
	return nombreDuplicado(c.entidad, c.repo.Create(ctx, v))
}

func (c catalogo[T]) actualizar(ctx context.Context, id uuid.UUID, version int, nombre string, campos map[string]any) (*T, error) {
	if _, err := c.obtener(ctx, id); err != nil {
		return nil, err
	}
	_, err := c.repo.FindByNombre(ctx, nombre, &id)
	if err := verificarEdicion(c.entidad, "nombre", err); err != nil {
		return nil, err
	}
	if err := c.repo.Update(ctx, id, version, campos); err != nil {
		return nil, nombreDuplicado(c.entidad, err)
	}
	return c.obtener(ctx, id)
}

// reactivar fails on the name when an active row took it meanwhile.
func (c catalogo[T]) reactivar(ctx context.Context, id uuid.UUID) error {
	return nombreDuplicado(c.entidad, c.repo.Reactivar(ctx, id))
}

// ── Branches ──────────────────────────────────────────────────────────────────

type SucursalService interface {
	Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.SucursalResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.SucursalResponse, error)
	Crear(ctx context.Context, req dto.SucursalRequest) (*dto.SucursalResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSucursalRequest) (*dto.SucursalResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type sucursalService struct{ catalogo[model.Sucursal] }

func NewSucursalService(repo repository.SucursalRepository) SucursalService {
	return &sucursalService{catalogo[model.Sucursal]{repo: repo, entidad: "una sucursal"}}
}

func (s *sucursalService) Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.SucursalResponse, error) {
	list, err := s.listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SucursalResponse, 0, len(list))
	for i := range list {
		out = append(out, mapSucursal(&list[i]))
	}
	return out, nil
}

func (s *sucursalService) Obtener(ctx context.Context, id uuid.UUID) (*dto.SucursalResponse, error) {
	v, err := s.obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapSucursal(v)
	return &resp, nil
}

func (s *sucursalService) Crear(ctx context.Context, req dto.SucursalRequest) (*dto.SucursalResponse, error) {
	v := &model.Sucursal{Nombre: req.Nombre, Direccion: req.Direccion, Telefono: req.Telefono, Activo: true}
	if err := s.crear(ctx, v, req.Nombre); err != nil {
		return nil, err
	}
	resp := mapSucursal(v)
	return &resp, nil
}

func (s *sucursalService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSucursalRequest) (*dto.SucursalResponse, error) {
	v, err := s.actualizar(ctx, id, req.Version, req.Nombre, map[string]any{
		"nombre": req.Nombre, "direccion": req.Direccion, "telefono": req.Telefono,
	})
	if err != nil {
		return nil, err
	}
	resp := mapSucursal(v)
	return &resp, nil
}

func (s *sucursalService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *sucursalService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.reactivar(ctx, id)
}

func mapSucursal(v *model.Sucursal) dto.SucursalResponse {
	return dto.SucursalResponse{
		ID: v.ID, Nombre: v.Nombre, Direccion: v.Direccion, Telefono: v.Telefono,
		Activo: v.Activo, Version: v.Version,
	}
}

// ── Activity types ────────────────────────────────────────────────────────────

type ActividadService interface {
	Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.ActividadResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ActividadResponse, error)
	Crear(ctx context.Context, req dto.ActividadRequest) (*dto.ActividadResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarActividadRequest) (*dto.ActividadResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type actividadService struct{ catalogo[model.Actividad] }

func NewActividadService(repo repository.ActividadRepository) ActividadService {
	return &actividadService{catalogo[model.Actividad]{repo: repo, entidad: "una actividad"}}
}

func (s *actividadService) Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.ActividadResponse, error) {
	list, err := s.listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActividadResponse, 0, len(list))
	for i := range list {
		out = append(out, mapActividad(&list[i]))
	}
	return out, nil
}

func (s *actividadService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ActividadResponse, error) {
	v, err := s.obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapActividad(v)
	return &resp, nil
}

func (s *actividadService) Crear(ctx context.Context, req dto.ActividadRequest) (*dto.ActividadResponse, error) {
	v := &model.Actividad{
		Nombre: req.Nombre, Descripcion: req.Descripcion,
		DuracionMinutos: req.DuracionMinutos, Dificultad: req.Dificultad, Activo: true,
	}
	if err := s.crear(ctx, v, req.Nombre); err != nil {
		return nil, err
	}
	resp := mapActividad(v)
	return &resp, nil
}

func (s *actividadService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarActividadRequest) (*dto.ActividadResponse, error) {
	v, err := s.actualizar(ctx, id, req.Version, req.Nombre, map[string]any{
		"nombre": req.Nombre, "descripcion": req.Descripcion,
		"duracion_minutos": req.DuracionMinutos, "dificultad": req.Dificultad,
	})
	if err != nil {
		return nil, err
	}
	resp := mapActividad(v)
	return &resp, nil
}

func (s *actividadService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *actividadService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.reactivar(ctx, id)
}

func mapActividad(v *model.Actividad) dto.ActividadResponse {
	return dto.ActividadResponse{
		ID: v.ID, Nombre: v.Nombre, Descripcion: v.Descripcion,
		DuracionMinutos: v.DuracionMinutos, Dificultad: v.Dificultad,
		Activo: v.Activo, Version: v.Version,
	}
}

// ── Plan types ────────────────────────────────────────────────────────────────

type TipoMembresiaService interface {
	Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.TipoMembresiaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.TipoMembresiaResponse, error)
	Crear(ctx context.Context, req dto.TipoMembresiaRequest) (*dto.TipoMembresiaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoMembresiaRequest) (*dto.TipoMembresiaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type tipoMembresiaService struct{ catalogo[model.TipoMembresia] }

func NewTipoMembresiaService(repo repository.TipoMembresiaRepository) TipoMembresiaService {
	return &tipoMembresiaService{catalogo[model.TipoMembresia]{repo: repo, entidad: "un tipo de membresía"}}
}

func (s *tipoMembresiaService) Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.TipoMembresiaResponse, error) {
	list, err := s.listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TipoMembresiaResponse, 0, len(list))
	for i := range list {
		out = append(out, mapTipoMembresia(&list[i]))
	}
	return out, nil
}

func (s *tipoMembresiaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.TipoMembresiaResponse, error) {
	v, err := s.obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapTipoMembresia(v)
	return &resp, nil
}

func (s *tipoMembresiaService) Crear(ctx context.Context, req dto.TipoMembresiaRequest) (*dto.TipoMembresiaResponse, error) {
	if req.Precio.IsNegative() {
		return nil, gymerr.NewValidation("precio", "no puede ser negativo")
	}
	v := &model.TipoMembresia{
		Nombre: req.Nombre, Descripcion: req.Descripcion,
		DuracionDias: req.DuracionDias, Precio: req.Precio.Round(2), Activo: true,
	}
	if err := s.crear(ctx, v, req.Nombre); err != nil {
		return nil, err
	}
	resp := mapTipoMembresia(v)
	return &resp, nil
}

func (s *tipoMembresiaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoMembresiaRequest) (*dto.TipoMembresiaResponse, error) {
	if req.Precio.IsNegative() {
		return nil, gymerr.NewValidation("precio", "no puede ser negativo")
	}
	v, err := s.actualizar(ctx, id, req.Version, req.Nombre, map[string]any{
		"nombre": req.Nombre, "descripcion": req.Descripcion,
		"duracion_dias": req.DuracionDias, "precio": req.Precio.Round(2),
	})
	if err != nil {
		return nil, err
	}
	resp := mapTipoMembresia(v)
	return &resp, nil
}

func (s *tipoMembresiaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *tipoMembresiaService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.reactivar(ctx, id)
}

func mapTipoMembresia(v *model.TipoMembresia) dto.TipoMembresiaResponse {
	return dto.TipoMembresiaResponse{
		ID: v.ID, Nombre: v.Nombre, Descripcion: v.Descripcion,
		DuracionDias: v.DuracionDias, Precio: v.Precio,
		Activo: v.Activo, Version: v.Version,
	}
}

// ── Specialties ───────────────────────────────────────────────────────────────

type EspecialidadService interface {
	Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.EspecialidadResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EspecialidadResponse, error)
	Crear(ctx context.Context, req dto.EspecialidadRequest) (*dto.EspecialidadResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEspecialidadRequest) (*dto.EspecialidadResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type especialidadService struct{ catalogo[model.Especialidad] }

func NewEspecialidadService(repo repository.EspecialidadRepository) EspecialidadService {
	return &especialidadService{catalogo[model.Especialidad]{repo: repo, entidad: "una especialidad"}}
}

func (s *especialidadService) Listar(ctx context.Context, filtro dto.FiltroEstado) ([]dto.EspecialidadResponse, error) {
	list, err := s.listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EspecialidadResponse, 0, len(list))
	for i := range list {
		out = append(out, mapEspecialidad(&list[i]))
	}
	return out, nil
}

func (s *especialidadService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EspecialidadResponse, error) {
	v, err := s.obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapEspecialidad(v)
	return &resp, nil
}

func (s *especialidadService) Crear(ctx context.Context, req dto.EspecialidadRequest) (*dto.EspecialidadResponse, error) {
	v := &model.Especialidad{Nombre: req.Nombre, Activo: true}
	if err := s.crear(ctx, v, req.Nombre); err != nil {
		return nil, err
	}
	resp := mapEspecialidad(v)
	return &resp, nil
}

func (s *especialidadService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEspecialidadRequest) (*dto.EspecialidadResponse, error) {
	v, err := s.actualizar(ctx, id, req.Version, req.Nombre, map[string]any{"nombre": req.Nombre})
	if err != nil {
		return nil, err
	}
	resp := mapEspecialidad(v)
	return &resp, nil
}

func (s *especialidadService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *especialidadService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.reactivar(ctx, id)
}

func mapEspecialidad(v *model.Especialidad) dto.EspecialidadResponse {
	return dto.EspecialidadResponse{ID: v.ID, Nombre: v.Nombre, Activo: v.Activo, Version: v.Version}
}
