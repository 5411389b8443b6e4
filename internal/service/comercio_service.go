package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/barcode"
	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/infra"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"
	"gymdesk/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notificador enqueues the welcome email; *worker.Dispatcher implements it.
type Notificador interface {
	EnqueueBienvenida(ctx context.Context, payload worker.BienvenidaPayload) error
}

type ComercioService interface {
	// PlanesDisponibles lists the plan types on sale.
	PlanesDisponibles(ctx context.Context) ([]dto.TipoMembresiaResponse, error)
	// ComprarMembresia turns a default account into a paying member in one
	// transaction and returns a session carrying the new role.
	ComprarMembresia(ctx context.Context, caller auth.Identidad, req dto.ComprarMembresiaRequest) (*dto.CompraResponse, error)
}

type comercioService struct {
	usuarios    repository.UsuarioRepository
	tipos       repository.TipoMembresiaRepository
	miembros    repository.MiembroRepository
	pagos       repository.PagoRepository
	auth        AuthService
	notificador Notificador
	now         func() time.Time
}

func NewComercioService(
	usuarios repository.UsuarioRepository,
	tipos repository.TipoMembresiaRepository,
	miembros repository.MiembroRepository,
	pagos repository.PagoRepository,
	authSvc AuthService,
	notificador Notificador,
) ComercioService {
	return &comercioService{
		usuarios:    usuarios,
		tipos:       tipos,
		miembros:    miembros,
		pagos:       pagos,
		auth:        authSvc,
		notificador: notificador,
		now:         time.Now,
	}
}

func (s *comercioService) PlanesDisponibles(ctx context.Context) ([]dto.TipoMembresiaResponse, error) {
	list, err := s.tipos.List(ctx, dto.FiltroActivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TipoMembresiaResponse, 0, len(list))
	for i := range list {
		out = append(out, mapTipoMembresia(&list[i]))
	}
	return out, nil
}

// ── ComprarMembresia ──────────────────────────────────────────────────────────
//   1. Preconditions: default role, plan active, DNI unused by any member
//   2. BEGIN TX: member + license + membership, payment, role promotion
//   3. COMMIT
//   4. Re-issue the session with the member role
//   5. (async) welcome email with the receipt

func (s *comercioService) ComprarMembresia(ctx context.Context, caller auth.Identidad, req dto.ComprarMembresiaRequest) (*dto.CompraResponse, error) {
	switch caller.Rol {
	case model.RolDefault:
	case model.RolMember:
		return nil, gymerr.ErrAlreadyMember
	default:
		return nil, gymerr.ErrForbidden
	}

	usuario, err := s.usuarios.FindByID(ctx, caller.UsuarioID)
	if err != nil {
		return nil, noEncontrado(err)
	}
	if usuario.Rol == model.RolMember {
		return nil, gymerr.ErrAlreadyMember
	}
	if usuario.Rol != model.RolDefault || !usuario.Activo {
		return nil, gymerr.ErrForbidden
	}

	plan, err := s.tipos.FindByID(ctx, req.TipoMembresiaID)
	if err != nil {
		return nil, noEncontrado(err)
	}
	if !plan.Activo {
		return nil, fmt.Errorf("plan %s: %w", plan.Nombre, gymerr.ErrInactive)
	}

	dni := strings.TrimSpace(req.DNI)
	if _, err := s.miembros.FindByDNI(ctx, dni, nil); err == nil {
		return nil, gymerr.ErrDuplicateDNI
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	nacimiento, err := parseFechaNacimiento(req.FechaNacimiento)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	m := &model.Miembro{
		Persona: model.Persona{
			Nombre:    usuario.Nombre,
			Apellido:  usuario.Apellido,
			DNI:       dni,
			Telefono:  req.Telefono,
			Email:     usuario.Email,
			UsuarioID: &usuario.ID,
		},
		FechaNacimiento: nacimiento,
		Direccion:       req.Direccion,
		Genero:          req.Genero,
		Activo:          true,
		Licencia: &model.Licencia{
			CodigoBarras: barcode.GenerateEAN13(dni),
			Vigencia:     model.NuevaVigenciaAnual(now),
			Activo:       true,
		},
		Membresia: &model.Membresia{
			TipoMembresiaID: plan.ID,
			Estado:          model.EstadoMembresiaPagada,
			PrecioPagado:    plan.Precio,
			Deuda:           decimal.Zero,
			Descuento:       decimal.Zero,
			Vigencia:        model.NuevaVigencia(now, plan.DuracionDias),
			Activo:          true,
		},
	}
	pago := &model.Pago{Fecha: now, Monto: plan.Precio, MetodoPago: model.MetodoPagoSimulado}

	txErr := runTx(ctx, s.miembros.DB(), func(tx *gorm.DB) error {
		if err := s.miembros.CreateTx(ctx, tx, m); err != nil {
			return fmt.Errorf("alta de miembro: %w", err)
		}
		pago.MiembroID = m.ID
		pago.MembresiaID = m.Membresia.ID
		if err := s.pagos.CreateTx(ctx, tx, pago); err != nil {
			return fmt.Errorf("registro de pago: %w", err)
		}
		return s.usuarios.PromoverRolTx(ctx, tx, usuario.ID, model.RolDefault, model.RolMember)
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, gymerr.ErrAlreadyMember):
			return nil, gymerr.ErrAlreadyMember
		case repository.IsDuplicate(txErr):
			return nil, gymerr.ErrDuplicateDNI
		}
		log.Error().Err(txErr).
			Str("usuario_id", usuario.ID.String()).
			Str("tipo_membresia_id", plan.ID.String()).
			Msg("compra de membresía revertida")
		return nil, fmt.Errorf("%w: %w", gymerr.ErrPurchaseFailed, txErr)
	}
	log.Info().Str("miembro_id", m.ID.String()).Str("plan", plan.Nombre).Msg("membresía comprada")

	m.Membresia.TipoMembresia = plan
	resp := &dto.CompraResponse{
		Miembro: mapMiembro(m),
		Pago:    mapPago(pago, m.NombreCompleto()),
	}

	// The purchase is committed: a failure from here on only loses the
	// refreshed session or the email, never the membership.
	sesion, err := s.auth.EmitirSesion(ctx, usuario.ID)
	if err != nil {
		log.Warn().Err(err).Str("usuario_id", usuario.ID.String()).Msg("no se pudo reemitir la sesión")
	} else {
		resp.Sesion = sesion
	}
	s.notificar(ctx, m, plan, pago)
	return resp, nil
}

func (s *comercioService) notificar(ctx context.Context, m *model.Miembro, plan *model.TipoMembresia, pago *model.Pago) {
	if s.notificador == nil || m.Email == "" {
		return
	}
	payload := worker.BienvenidaPayload{
		ToEmail: m.Email,
		Nombre:  m.Nombre,
		Recibo: infra.Recibo{
			Numero:        strings.ToUpper(pago.ID.String()[:8]),
			Fecha:         pago.Fecha,
			Miembro:       m.NombreCompleto(),
			DNI:           m.DNI,
			Plan:          plan.Nombre,
			Monto:         pago.Monto,
			MetodoPago:    pago.MetodoPago,
			VigenciaDesde: time.Time(m.Membresia.Desde),
			VigenciaHasta: time.Time(m.Membresia.Hasta),
			CodigoBarras:  m.Licencia.CodigoBarras,
		},
	}
	if err := s.notificador.EnqueueBienvenida(ctx, payload); err != nil {
		log.Warn().Err(err).Str("miembro_id", m.ID.String()).Msg("no se pudo encolar el email de bienvenida")
	}
}

func mapPago(p *model.Pago, miembro string) dto.PagoResponse {
	return dto.PagoResponse{
		ID:         p.ID,
		MiembroID:  p.MiembroID,
		Miembro:    miembro,
		Fecha:      p.Fecha,
		Monto:      p.Monto,
		MetodoPago: p.MetodoPago,
	}
}
