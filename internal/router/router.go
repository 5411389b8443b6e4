package router

import (
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/config"
	"gymdesk/internal/dto"
	"gymdesk/internal/handler"
	"gymdesk/internal/infra"
	"gymdesk/internal/middleware"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"
	"gymdesk/internal/service"
	"gymdesk/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Role groups used by the route table.
var (
	soloSuperUser = []model.Rol{model.RolSuperUser}
	personal      = []model.Rol{model.RolSuperUser, model.RolManager, model.RolAdministrator}
	recepcion     = []model.Rol{model.RolSuperUser, model.RolManager, model.RolAdministrator, model.RolCoach}
	clientes      = []model.Rol{model.RolDefault, model.RolMember}
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb and mailer may be nil: the store cache and welcome emails are then off.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	actividadRepo := repository.NewActividadRepository(db)
	tipoRepo := repository.NewTipoMembresiaRepository(db)
	especialidadRepo := repository.NewEspecialidadRepository(db)
	miembroRepo := repository.NewMiembroRepository(db)
	profesorRepo := repository.NewProfesorRepository(db)
	claseRepo := repository.NewClaseRepository(db)
	asistenciaRepo := repository.NewAsistenciaRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	jwtSvc := auth.NewJWTService(cfg.JWTSecret, "gymdesk")
	authSvc := service.NewAuthService(usuarioRepo, sucursalRepo, jwtSvc, cfg)

	// Worker dispatcher: the purchase enqueues the welcome email through it
	var notificador service.Notificador
	if rdb != nil {
		notificador = worker.NewDispatcher(rdb)
	}

	sucursalSvc := service.NewSucursalService(sucursalRepo)
	actividadSvc := service.NewActividadService(actividadRepo)
	tipoSvc := service.NewTipoMembresiaService(tipoRepo)
	especialidadSvc := service.NewEspecialidadService(especialidadRepo)
	miembroSvc := service.NewMiembroService(miembroRepo, usuarioRepo)
	profesorSvc := service.NewProfesorService(profesorRepo, sucursalRepo, especialidadRepo)
	claseSvc := service.NewClaseService(claseRepo, sucursalRepo, actividadRepo, profesorRepo, miembroRepo)
	asistenciaSvc := service.NewAsistenciaService(asistenciaRepo, miembroRepo, claseRepo)
	comercioSvc := service.NewComercioService(usuarioRepo, tipoRepo, miembroRepo, pagoRepo, authSvc, notificador)
	reporteSvc := service.NewReporteService(reporteRepo)
	perfilSvc := service.NewPerfilService(sucursalRepo, claseRepo, miembroRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	tiendaH := handler.NewTiendaHandler(comercioSvc, rdb, time.Duration(cfg.CatalogCacheTTLMinutes)*time.Minute)
	sucursalesH := handler.NewRegistroHandler[dto.SucursalRequest, dto.ActualizarSucursalRequest, dto.SucursalResponse](sucursalSvc)
	actividadesH := handler.NewRegistroHandler[dto.ActividadRequest, dto.ActualizarActividadRequest, dto.ActividadResponse](actividadSvc)
	tiposH := handler.NewRegistroHandler[dto.TipoMembresiaRequest, dto.ActualizarTipoMembresiaRequest, dto.TipoMembresiaResponse](tipoSvc).
		AlCambiar(tiendaH.InvalidarPlanes)
	especialidadesH := handler.NewRegistroHandler[dto.EspecialidadRequest, dto.ActualizarEspecialidadRequest, dto.EspecialidadResponse](especialidadSvc)
	miembrosH := handler.NewRegistroHandler[dto.MiembroRequest, dto.ActualizarMiembroRequest, dto.MiembroResponse](miembroSvc)
	profesoresH := handler.NewProfesoresHandler(profesorSvc)
	clasesH := handler.NewClasesHandler(claseSvc)
	asistenciaH := handler.NewAsistenciaHandler(asistenciaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	perfilH := handler.NewPerfilHandler(perfilSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	var mailerCB *infra.CircuitBreaker
	if mailer != nil {
		mailerCB = mailer.Breaker()
	}
	r.GET("/health", handler.Health(db, rdb, mailerCB))

	// Auth (public)
	authG := r.Group("/v1/auth")
	{
		authG.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		authG.POST("/registro", middleware.LoginRateLimiter(), authH.Registrar)
		authG.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(jwtSvc))
	{
		usuarios := v1.Group("/usuarios", middleware.RequireRole(soloSuperUser...))
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/:id", usuariosH.Obtener)
			usuarios.POST("", usuariosH.Crear)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		registro(v1.Group("/sucursales", middleware.RequireRole(soloSuperUser...)), sucursalesH)
		registro(v1.Group("/actividades", middleware.RequireRole(personal...)), actividadesH)
		registro(v1.Group("/tipos-membresia", middleware.RequireRole(personal...)), tiposH)
		registro(v1.Group("/especialidades", middleware.RequireRole(personal...)), especialidadesH)
		registro(v1.Group("/miembros", middleware.RequireRole(personal...)), miembrosH)

		profesores := v1.Group("/profesores", middleware.RequireRole(personal...))
		{
			profesores.GET("", profesoresH.Listar)
			profesores.GET("/:id", profesoresH.Obtener)
			profesores.POST("", profesoresH.Crear)
			profesores.PUT("/:id", profesoresH.Actualizar)
			profesores.DELETE("/:id", profesoresH.Desactivar)
			profesores.PATCH("/:id/reactivar", profesoresH.Reactivar)
		}

		// Classrooms: staff manage, only the SuperUser bulk-assigns, and a
		// member enrolls their own record.
		clases := v1.Group("/clases")
		{
			clases.GET("", middleware.RequireRole(personal...), clasesH.Listar)
			clases.GET("/:id", middleware.RequireRole(personal...), clasesH.Obtener)
			clases.POST("", middleware.RequireRole(personal...), clasesH.Crear)
			clases.PUT("/:id", middleware.RequireRole(personal...), clasesH.Actualizar)
			clases.DELETE("/:id", middleware.RequireRole(personal...), clasesH.Desactivar)
			clases.PATCH("/:id/reactivar", middleware.RequireRole(personal...), clasesH.Reactivar)
			clases.POST("/:id/miembros/:miembro_id", middleware.RequireRole(personal...), clasesH.Inscribir)
			clases.PUT("/:id/integrantes", middleware.RequireRole(soloSuperUser...), clasesH.AsignarIntegrantes)
			clases.POST("/:id/inscripcion", middleware.RequireRole(model.RolMember), clasesH.InscribirCuenta)
		}

		v1.POST("/asistencias", middleware.RequireRole(recepcion...), asistenciaH.Registrar)

		reportes := v1.Group("/reportes", middleware.RequireRole(personal...))
		{
			reportes.GET("/asistencias", reportesH.Asistencias)
			reportes.GET("/deudores", reportesH.Deudores)
			reportes.GET("/ingresos", reportesH.Ingresos)
		}

		explorar := v1.Group("/explorar", middleware.RequireRole(clientes...))
		{
			explorar.GET("/sucursales", perfilH.Sucursales)
			explorar.GET("/sucursales/:id/clases", perfilH.Clases)
		}

		tienda := v1.Group("/tienda")
		{
			tienda.GET("/planes", middleware.RequireRole(clientes...), tiendaH.Planes)
			tienda.POST("/comprar", middleware.RequireRole(model.RolDefault), tiendaH.Comprar)
		}

		perfil := v1.Group("/perfil", middleware.RequireRole(model.RolMember))
		{
			perfil.GET("", perfilH.MiPerfil)
			perfil.GET("/licencia/qr", perfilH.LicenciaQR)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// registro mounts the six lifecycle routes of one entity kind.
func registro[C, U, R any](g *gin.RouterGroup, h *handler.RegistroHandler[C, U, R]) {
	g.GET("", h.Listar)
	g.GET("/:id", h.Obtener)
	g.POST("", h.Crear)
	g.PUT("/:id", h.Actualizar)
	g.DELETE("/:id", h.Desactivar)
	g.PATCH("/:id/reactivar", h.Reactivar)
}
