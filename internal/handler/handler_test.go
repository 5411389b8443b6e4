package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymdesk/internal/apierror"
	"gymdesk/internal/auth"
	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/middleware"
	"gymdesk/internal/model"
	"gymdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Stubs ─────────────────────────────────────────────────────────────────────

var (
	_ service.ClaseService    = (*stubClaseService)(nil)
	_ service.ComercioService = (*stubComercioService)(nil)
	_ service.PerfilService   = (*stubPerfilService)(nil)
	_ service.ReporteService  = (*stubReporteService)(nil)
	_ service.SucursalService = (*stubSucursalService)(nil)
)

type stubClaseService struct {
	err        error
	lastCaller auth.Identidad
	lastReq    dto.ClaseRequest
}

func (s *stubClaseService) Listar(_ context.Context, caller auth.Identidad, _ dto.FiltroEstado) ([]dto.ClaseResponse, error) {
	s.lastCaller = caller
	return []dto.ClaseResponse{}, s.err
}
func (s *stubClaseService) Obtener(_ context.Context, id uuid.UUID) (*dto.ClaseResponse, error) {
	return &dto.ClaseResponse{ID: id}, s.err
}
func (s *stubClaseService) Crear(_ context.Context, caller auth.Identidad, req dto.ClaseRequest) (*dto.ClaseResponse, error) {
	s.lastCaller, s.lastReq = caller, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ClaseResponse{ID: uuid.New(), Nombre: req.Nombre, Cupo: req.Cupo}, nil
}
func (s *stubClaseService) Actualizar(_ context.Context, caller auth.Identidad, id uuid.UUID, req dto.ActualizarClaseRequest) (*dto.ClaseResponse, error) {
	s.lastCaller, s.lastReq = caller, req.ClaseRequest
	return &dto.ClaseResponse{ID: id}, s.err
}
func (s *stubClaseService) AsignarIntegrantes(_ context.Context, id uuid.UUID, _ dto.IntegrantesRequest) (*dto.ClaseResponse, error) {
	return &dto.ClaseResponse{ID: id}, s.err
}
func (s *stubClaseService) Inscribir(_ context.Context, claseID, miembroID uuid.UUID) (*dto.InscripcionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.InscripcionResponse{ClaseID: claseID, MiembroID: miembroID, Inscriptos: 1, Cupo: 1}, nil
}
func (s *stubClaseService) InscribirCuenta(_ context.Context, caller auth.Identidad, claseID uuid.UUID) (*dto.InscripcionResponse, error) {
	s.lastCaller = caller
	return s.Inscribir(context.Background(), claseID, uuid.New())
}
func (s *stubClaseService) Desactivar(context.Context, uuid.UUID) error { return s.err }
func (s *stubClaseService) Reactivar(context.Context, uuid.UUID) error  { return s.err }

type stubComercioService struct {
	planes int
	err    error
}

func (s *stubComercioService) PlanesDisponibles(context.Context) ([]dto.TipoMembresiaResponse, error) {
	s.planes++
	return []dto.TipoMembresiaResponse{{ID: uuid.New(), Nombre: "Mensual", Precio: decimal.NewFromInt(100), DuracionDias: 30}}, nil
}
func (s *stubComercioService) ComprarMembresia(_ context.Context, caller auth.Identidad, req dto.ComprarMembresiaRequest) (*dto.CompraResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CompraResponse{Miembro: dto.MiembroResponse{DNI: req.DNI, UsuarioID: &caller.UsuarioID}}, nil
}

type stubPerfilService struct{ err error }

func (s *stubPerfilService) Sucursales(context.Context) ([]dto.SucursalResponse, error) {
	return []dto.SucursalResponse{}, s.err
}
func (s *stubPerfilService) ClasesDeSucursal(context.Context, uuid.UUID) ([]dto.ClaseResponse, error) {
	return []dto.ClaseResponse{}, s.err
}
func (s *stubPerfilService) MiPerfil(context.Context, auth.Identidad) (*dto.MiembroResponse, error) {
	return &dto.MiembroResponse{}, s.err
}
func (s *stubPerfilService) LicenciaQR(_ context.Context, _ auth.Identidad, size int) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte(fmt.Sprintf("\x89PNG%d", size)), nil
}

type stubReporteService struct{ desde, hasta time.Time }

func (s *stubReporteService) Asistencias(_ context.Context, desde, hasta time.Time) (*dto.ReporteAsistenciaResponse, error) {
	s.desde, s.hasta = desde, hasta
	return &dto.ReporteAsistenciaResponse{}, nil
}
func (s *stubReporteService) Deudores(context.Context) (*dto.ReporteDeudoresResponse, error) {
	return &dto.ReporteDeudoresResponse{}, nil
}
func (s *stubReporteService) Ingresos(_ context.Context, desde, hasta time.Time) (*dto.ReporteIngresosResponse, error) {
	s.desde, s.hasta = desde, hasta
	return &dto.ReporteIngresosResponse{}, nil
}

type stubSucursalService struct{ err error }

func (s *stubSucursalService) Listar(context.Context, dto.FiltroEstado) ([]dto.SucursalResponse, error) {
	return nil, s.err
}
func (s *stubSucursalService) Obtener(_ context.Context, id uuid.UUID) (*dto.SucursalResponse, error) {
	return &dto.SucursalResponse{ID: id}, s.err
}
func (s *stubSucursalService) Crear(_ context.Context, req dto.SucursalRequest) (*dto.SucursalResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SucursalResponse{ID: uuid.New(), Nombre: req.Nombre}, nil
}
func (s *stubSucursalService) Actualizar(_ context.Context, id uuid.UUID, _ dto.ActualizarSucursalRequest) (*dto.SucursalResponse, error) {
	return &dto.SucursalResponse{ID: id}, s.err
}
func (s *stubSucursalService) Desactivar(context.Context, uuid.UUID) error { return s.err }
func (s *stubSucursalService) Reactivar(context.Context, uuid.UUID) error  { return s.err }

// ── Helpers ───────────────────────────────────────────────────────────────────

func newEngine(who *auth.Identidad) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	if who != nil {
		r.Use(func(c *gin.Context) { c.Set(middleware.IdentidadKey, *who) })
	}
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func manager() *auth.Identidad {
	suc := uuid.New()
	return &auth.Identidad{UsuarioID: uuid.New(), Username: "gerente", Rol: model.RolManager, SucursalID: &suc}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRespondError_Taxonomy(t *testing.T) {
	reactivar := uuid.New()
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
		notInBody  string
	}{
		{"validation", gymerr.NewValidation("nombre", "ya existe"), http.StatusUnprocessableEntity, `"nombre":"ya existe"`, ""},
		{"reactivation", &gymerr.ReactivationRequired{Entidad: "una sucursal", ID: reactivar}, http.StatusConflict, reactivar.String(), ""},
		{"not found wrapped", fmt.Errorf("licencia: %w", gymerr.ErrNotFound), http.StatusNotFound, "licencia", ""},
		{"conflict", gymerr.ErrConflict, http.StatusConflict, "modificado", ""},
		{"capacity", gymerr.ErrCapacityExceeded, http.StatusConflict, "cupo", ""},
		{"not enrolled", gymerr.ErrNotEnrolled, http.StatusUnprocessableEntity, "inscripto", ""},
		{"forbidden", gymerr.ErrForbidden, http.StatusForbidden, "permisos", ""},
		{"credentials", gymerr.ErrInvalidCredentials, http.StatusUnauthorized, "credenciales", ""},
		{"purchase hides cause", fmt.Errorf("%w: %w", gymerr.ErrPurchaseFailed, errors.New("pq: deadlock")), http.StatusInternalServerError, "compra", "deadlock"},
		{"infrastructure", errors.New("dial tcp: refused"), http.StatusInternalServerError, "Error interno", "dial"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(nil)
			r.GET("/x", func(c *gin.Context) { respondError(c, tt.err) })
			w := do(r, http.MethodGet, "/x", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.notInBody != "" {
				assert.NotContains(t, w.Body.String(), tt.notInBody)
			}
		})
	}
}

func TestClases_CrearValidation(t *testing.T) {
	svc := &stubClaseService{}
	r := newEngine(manager())
	r.POST("/clases", NewClasesHandler(svc).Crear)

	w := do(r, http.MethodPost, "/clases", map[string]any{
		"actividad_id": uuid.New(),
		"horarios":     []map[string]any{{"dia_semana": 1, "inicio": "09:00", "fin": "9pm"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[struct{ Fields map[string]string }](t, w)
	assert.Equal(t, "required", body.Fields["nombre"])
	assert.Equal(t, "required", body.Fields["cupo"])
	assert.Equal(t, "datetime", body.Fields["horarios[0].fin"])
}

func TestClases_ActualizarReportsEmbeddedFields(t *testing.T) {
	r := newEngine(manager())
	r.PUT("/clases/:id", NewClasesHandler(&stubClaseService{}).Actualizar)

	w := do(r, http.MethodPut, "/clases/"+uuid.NewString(), map[string]any{"nombre": "Yoga"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[struct{ Fields map[string]string }](t, w)
	assert.Contains(t, body.Fields, "version")
	assert.Contains(t, body.Fields, "cupo")
}

func TestClases_CrearPassesCaller(t *testing.T) {
	who := manager()
	svc := &stubClaseService{}
	r := newEngine(who)
	r.POST("/clases", NewClasesHandler(svc).Crear)

	w := do(r, http.MethodPost, "/clases", dto.ClaseRequest{Nombre: "Spinning", ActividadID: uuid.New(), Cupo: 20})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, who.UsuarioID, svc.lastCaller.UsuarioID)
	assert.Equal(t, "Spinning", svc.lastReq.Nombre)
}

func TestClases_Inscripcion(t *testing.T) {
	member := &auth.Identidad{UsuarioID: uuid.New(), Rol: model.RolMember}

	svc := &stubClaseService{}
	r := newEngine(member)
	h := NewClasesHandler(svc)
	r.POST("/clases/:id/inscripcion", h.InscribirCuenta)
	r.POST("/clases/:id/miembros/:miembro_id", h.Inscribir)

	w := do(r, http.MethodPost, "/clases/"+uuid.NewString()+"/inscripcion", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, member.UsuarioID, svc.lastCaller.UsuarioID)

	svc.err = gymerr.ErrAlreadyEnrolled
	w = do(r, http.MethodPost, "/clases/"+uuid.NewString()+"/inscripcion", nil)
	assert.Equal(t, http.StatusOK, w.Code, "already enrolled is informational")
	assert.Contains(t, w.Body.String(), "mensaje")

	svc.err = gymerr.ErrCapacityExceeded
	w = do(r, http.MethodPost, "/clases/"+uuid.NewString()+"/miembros/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/clases/nope/miembros/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegistroHandler_HookRunsOnSuccessOnly(t *testing.T) {
	svc := &stubSucursalService{}
	calls := 0
	h := NewRegistroHandler[dto.SucursalRequest, dto.ActualizarSucursalRequest, dto.SucursalResponse](svc).
		AlCambiar(func(context.Context) { calls++ })
	r := newEngine(nil)
	r.POST("/sucursales", h.Crear)
	r.DELETE("/sucursales/:id", h.Desactivar)

	w := do(r, http.MethodPost, "/sucursales", dto.SucursalRequest{Nombre: "Central", Direccion: "Av. Siempre Viva 742"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, calls)

	w = do(r, http.MethodDelete, "/sucursales/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 2, calls)

	svc.err = &gymerr.ReactivationRequired{Entidad: "una sucursal", ID: uuid.New()}
	w = do(r, http.MethodPost, "/sucursales", dto.SucursalRequest{Nombre: "Central", Direccion: "Av. Siempre Viva 742"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "reactivar_id")
	assert.Equal(t, 2, calls)
}

func TestTienda_PlanesAndComprar(t *testing.T) {
	svc := &stubComercioService{}
	who := &auth.Identidad{UsuarioID: uuid.New(), Rol: model.RolDefault}
	h := NewTiendaHandler(svc, nil, time.Minute)
	r := newEngine(who)
	r.GET("/planes", h.Planes)
	r.POST("/comprar", h.Comprar)

	w := do(r, http.MethodGet, "/planes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.TipoMembresiaResponse](t, w), 1)
	assert.Equal(t, 1, svc.planes)
	h.InvalidarPlanes(context.Background())

	w = do(r, http.MethodPost, "/comprar", dto.ComprarMembresiaRequest{
		TipoMembresiaID: uuid.New(), DNI: "30111222", FechaNacimiento: "1990-05-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[dto.CompraResponse](t, w)
	assert.Equal(t, "30111222", resp.Miembro.DNI)

	svc.err = gymerr.ErrAlreadyMember
	w = do(r, http.MethodPost, "/comprar", dto.ComprarMembresiaRequest{
		TipoMembresiaID: uuid.New(), DNI: "30111222", FechaNacimiento: "1990-05-01",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	// A sign or a decimal point would vanish from the license barcode and
	// collide with the plain-digit DNI.
	svc.err = nil
	for _, dni := range []string{"+40123456", "4012.3456", "-40123456"} {
		w = do(r, http.MethodPost, "/comprar", dto.ComprarMembresiaRequest{
			TipoMembresiaID: uuid.New(), DNI: dni, FechaNacimiento: "1990-05-01",
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, dni)
		assert.Contains(t, decode[apierror.ValidationError](t, w).Fields, "dni", dni)
	}
}

func TestPerfil_LicenciaQR(t *testing.T) {
	who := &auth.Identidad{UsuarioID: uuid.New(), Rol: model.RolMember}
	svc := &stubPerfilService{}
	r := newEngine(who)
	r.GET("/qr", NewPerfilHandler(svc).LicenciaQR)

	w := do(r, http.MethodGet, "/qr?size=5000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "256", "out of range sizes fall back to the default")

	svc.err = gymerr.ErrNotFound
	w = do(r, http.MethodGet, "/qr", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPerfil_RequiresIdentity(t *testing.T) {
	r := newEngine(nil)
	r.GET("/perfil", NewPerfilHandler(&stubPerfilService{}).MiPerfil)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/perfil", nil).Code)
}

func TestReportes_Rango(t *testing.T) {
	svc := &stubReporteService{}
	r := newEngine(nil)
	h := NewReportesHandler(svc)
	r.GET("/asistencias", h.Asistencias)
	r.GET("/deudores", h.Deudores)

	w := do(r, http.MethodGet, "/asistencias", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[struct{ Fields map[string]string }](t, w)
	assert.Contains(t, body.Fields, "desde")
	assert.Contains(t, body.Fields, "hasta")

	w = do(r, http.MethodGet, "/asistencias?desde=2026-03-01&hasta=2026-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), svc.desde)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), svc.hasta)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/deudores", nil).Code)
}
