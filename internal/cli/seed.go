package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gymdesk/internal/auth"
	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/repository"
	"gymdesk/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ── seed-superuser ───────────────────────────────────────────────────────────

type superUserResult struct {
	Username string `json:"username"`
	Created  bool   `json:"created"`
}

func NewSeedSuperUserCommand(opts *RootOptions) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "seed-superuser",
		Short: "Create the SuperUser account when none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := opts.open()
			if err != nil {
				return err
			}
			if username == "" {
				username = cfg.SuperUserUsername
			}
			if email == "" {
				email = cfg.SuperUserEmail
			}
			if password == "" {
				password = cfg.SuperUserPassword
			}
			svc := service.NewAuthService(repository.NewUsuarioRepository(db), repository.NewSucursalRepository(db),
				auth.NewJWTService(cfg.JWTSecret, "gymdesk"), cfg)
			created, err := svc.AsegurarSuperUsuario(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			res := superUserResult{Username: username, Created: created}
			return emit(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) {
				if created {
					linef(w, "superuser %q created", username)
				} else {
					linef(w, "a superuser already exists, nothing to do")
				}
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username (defaults to SUPERUSER_USERNAME)")
	cmd.Flags().StringVar(&email, "email", "", "email (defaults to SUPERUSER_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "password (defaults to SUPERUSER_PASSWORD)")
	return cmd
}

// ── seed-catalog ─────────────────────────────────────────────────────────────

var (
	validate  = validator.New()
	errPrecio = errors.New("precio no numerico")
)

// Catalogo is the YAML file accepted by seed-catalog.
type Catalogo struct {
	Sucursales     []dto.SucursalRequest     `yaml:"sucursales"`
	Actividades    []ActividadYAML           `yaml:"actividades"`
	Especialidades []dto.EspecialidadRequest `yaml:"especialidades"`
	Planes         []PlanYAML                `yaml:"planes"`
}

type ActividadYAML struct {
	Nombre          string `yaml:"nombre"`
	Descripcion     string `yaml:"descripcion"`
	DuracionMinutos int    `yaml:"duracion_minutos"`
	Dificultad      string `yaml:"dificultad"`
}

// PlanYAML keeps the price as text so no precision is lost to floats.
type PlanYAML struct {
	Nombre       string `yaml:"nombre"`
	Descripcion  string `yaml:"descripcion"`
	DuracionDias int    `yaml:"duracion_dias"`
	Precio       string `yaml:"precio"`
}

type seedLine struct {
	Tipo    string `json:"tipo"`
	Nombre  string `json:"nombre"`
	Estado  string `json:"estado"` // creado | rechazado | inactivo | invalido | error
	Detalle string `json:"detalle,omitempty"`
}

type seedResult struct {
	Items    []seedLine `json:"items"`
	Creados  int        `json:"creados"`
	Omitidos int        `json:"omitidos"`
}

func (r *seedResult) add(tipo, nombre string, err error) {
	line := seedLine{Tipo: tipo, Nombre: nombre, Estado: "creado"}
	var ve *gymerr.ValidationError
	var rr *gymerr.ReactivationRequired
	var ves validator.ValidationErrors
	switch {
	case err == nil:
		r.Creados++
	case errors.As(err, &rr):
		line.Estado = "inactivo"
		line.Detalle = "reactivar " + rr.ID.String()
	case errors.As(err, &ve):
		line.Estado = "rechazado"
		line.Detalle = ve.Error()
	case errors.As(err, &ves):
		campos := make([]string, 0, len(ves))
		for _, fe := range ves {
			campos = append(campos, fe.Field()+": "+fe.Tag())
		}
		line.Estado = "invalido"
		line.Detalle = strings.Join(campos, ", ")
	case errors.Is(err, errPrecio):
		line.Estado = "invalido"
		line.Detalle = err.Error()
	default:
		line.Estado = "error"
		line.Detalle = err.Error()
	}
	if err != nil {
		r.Omitidos++
	}
	r.Items = append(r.Items, line)
}

func NewSeedCatalogCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-catalog <file.yaml>",
		Short: "Load branches, activity types, specialties and plans from YAML",
		Long: `Load the base catalog from a YAML file. Entries that already exist are
rejected; entries matching an inactive record are reported for reactivation.
Running it twice is harmless.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var cat Catalogo
			if err := yaml.Unmarshal(raw, &cat); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			_, db, err := opts.open()
			if err != nil {
				return err
			}
			res := sembrar(cmd.Context(), cat, catalogServices{
				sucursales:     service.NewSucursalService(repository.NewSucursalRepository(db)),
				actividades:    service.NewActividadService(repository.NewActividadRepository(db)),
				especialidades: service.NewEspecialidadService(repository.NewEspecialidadRepository(db)),
				planes:         service.NewTipoMembresiaService(repository.NewTipoMembresiaRepository(db)),
			})
			return emit(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) {
				for _, it := range res.Items {
					if it.Detalle != "" {
						linef(w, "%-13s %-24s %s (%s)", it.Tipo, it.Nombre, it.Estado, it.Detalle)
					} else {
						linef(w, "%-13s %-24s %s", it.Tipo, it.Nombre, it.Estado)
					}
				}
				linef(w, "%d creados, %d omitidos", res.Creados, res.Omitidos)
			})
		},
	}
}

// crear validates req with the same tags the API uses, then creates it.
func crear[Req, Resp any](ctx context.Context, req Req, fn func(context.Context, Req) (*Resp, error)) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	_, err := fn(ctx, req)
	return err
}

type catalogServices struct {
	sucursales     service.SucursalService
	actividades    service.ActividadService
	especialidades service.EspecialidadService
	planes         service.TipoMembresiaService
}

func sembrar(ctx context.Context, cat Catalogo, svc catalogServices) seedResult {
	var res seedResult
	for _, s := range cat.Sucursales {
		res.add("sucursal", s.Nombre, crear(ctx, s, svc.sucursales.Crear))
	}
	for _, a := range cat.Actividades {
		req := dto.ActividadRequest{
			Nombre: a.Nombre, Descripcion: a.Descripcion, DuracionMinutos: a.DuracionMinutos, Dificultad: a.Dificultad,
		}
		res.add("actividad", a.Nombre, crear(ctx, req, svc.actividades.Crear))
	}
	for _, e := range cat.Especialidades {
		res.add("especialidad", e.Nombre, crear(ctx, e, svc.especialidades.Crear))
	}
	for _, p := range cat.Planes {
		precio, err := decimal.NewFromString(p.Precio)
		if err != nil {
			res.add("plan", p.Nombre, fmt.Errorf("%w: %q", errPrecio, p.Precio))
			continue
		}
		req := dto.TipoMembresiaRequest{
			Nombre: p.Nombre, Descripcion: p.Descripcion, DuracionDias: p.DuracionDias, Precio: precio,
		}
		res.add("plan", p.Nombre, crear(ctx, req, svc.planes.Crear))
	}
	return res
}
