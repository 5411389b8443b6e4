package service

import (
	"context"
	"time"

	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReporteService builds the read-only projections of the reports page.
// Ranges are whole UTC days, both ends included.
type ReporteService interface {
	Asistencias(ctx context.Context, desde, hasta time.Time) (*dto.ReporteAsistenciaResponse, error)
	Deudores(ctx context.Context) (*dto.ReporteDeudoresResponse, error)
	Ingresos(ctx context.Context, desde, hasta time.Time) (*dto.ReporteIngresosResponse, error)
}

type reporteService struct {
	repo repository.ReporteRepository
}

func NewReporteService(repo repository.ReporteRepository) ReporteService {
	return &reporteService{repo: repo}
}

func (s *reporteService) Asistencias(ctx context.Context, desde, hasta time.Time) (*dto.ReporteAsistenciaResponse, error) {
	ini, fin, err := rangoDias(desde, hasta)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.AsistenciasEntre(ctx, ini, fin)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReporteAsistenciaResponse{
		Desde: ini.Format(dto.FormatoFecha),
		Hasta: hasta.UTC().Format(dto.FormatoFecha),
		Total: len(list),
		Items: make([]dto.AsistenciaResponse, 0, len(list)),
	}
	for i := range list {
		a := &list[i]
		var miembro, clase string
		if a.Miembro != nil {
			miembro = a.Miembro.NombreCompleto()
		}
		if a.Clase != nil {
			clase = a.Clase.Nombre
		}
		resp.Items = append(resp.Items, *mapAsistencia(a, miembro, clase))
	}
	return resp, nil
}

func (s *reporteService) Deudores(ctx context.Context) (*dto.ReporteDeudoresResponse, error) {
	membresias, miembros, err := s.repo.Deudores(ctx)
	if err != nil {
		return nil, err
	}
	porID := make(map[uuid.UUID]int, len(miembros))
	for i, m := range miembros {
		porID[m.ID] = i
	}
	resp := &dto.ReporteDeudoresResponse{Items: make([]dto.DeudorResponse, 0, len(membresias)), Total: decimal.Zero}
	for _, ms := range membresias {
		item := dto.DeudorResponse{MiembroID: ms.MiembroID, Deuda: ms.Deuda}
		if i, ok := porID[ms.MiembroID]; ok {
			item.Miembro = miembros[i].NombreCompleto()
			item.DNI = miembros[i].DNI
		}
		if ms.TipoMembresia != nil {
			item.Plan = ms.TipoMembresia.Nombre
		}
		resp.Items = append(resp.Items, item)
		resp.Total = resp.Total.Add(ms.Deuda)
	}
	return resp, nil
}

func (s *reporteService) Ingresos(ctx context.Context, desde, hasta time.Time) (*dto.ReporteIngresosResponse, error) {
	ini, fin, err := rangoDias(desde, hasta)
	if err != nil {
		return nil, err
	}
	pagos, total, err := s.repo.PagosEntre(ctx, ini, fin)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReporteIngresosResponse{
		Desde: ini.Format(dto.FormatoFecha),
		Hasta: hasta.UTC().Format(dto.FormatoFecha),
		Items: make([]dto.PagoResponse, 0, len(pagos)),
		Total: total,
	}
	for i := range pagos {
		var nombre string
		if pagos[i].Miembro != nil {
			nombre = pagos[i].Miembro.NombreCompleto()
		}
		resp.Items = append(resp.Items, mapPago(&pagos[i], nombre))
	}
	return resp, nil
}

// rangoDias turns two calendar days into the half-open instant range
// [desde 00:00, hasta+1 00:00) in UTC.
func rangoDias(desde, hasta time.Time) (time.Time, time.Time, error) {
	ini := truncarDia(desde)
	fin := truncarDia(hasta).AddDate(0, 0, 1)
	if !fin.After(ini) {
		return time.Time{}, time.Time{}, gymerr.NewValidation("hasta", "debe ser igual o posterior a desde")
	}
	return ini, fin, nil
}

func truncarDia(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
