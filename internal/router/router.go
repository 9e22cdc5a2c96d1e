package router

import (
	"time"

	"gimnasio/internal/config"
	"gimnasio/internal/handler"
	"gimnasio/internal/infra"
	"gimnasio/internal/middleware"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"
	"gimnasio/internal/service"
	"gimnasio/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Servicios exposes the services the server also drives outside HTTP
// (scheduled jobs and the startup QR issuance).
type Servicios struct {
	Asistencias service.AsistenciaService
	Codigos     service.CodigoQRService
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil; the dashboard cache and the welcome email are then skipped.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *Servicios) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	loc := cfg.Location()

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP
	r.MaxMultipartMemory = 8 << 20

	// ── Infrastructure ───────────────────────────────────────────────────────
	storage := infra.NewStorage(cfg.UploadDir, cfg.PublicBaseURL)
	var emails service.EmailEnqueuer
	if rdb != nil {
		emails = worker.NewDispatcher(rdb)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	rolRepo := repository.NewRolRepository(db)
	sesionRepo := repository.NewSesionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	membresiaRepo := repository.NewMembresiaRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	categoriaRepo := repository.NewCategoriaEquipoRepository(db)
	equipoRepo := repository.NewEquipoRepository(db)
	mantenimientoRepo := repository.NewMantenimientoRepository(db)
	asistenciaRepo := repository.NewAsistenciaRepository(db)
	codigoRepo := repository.NewCodigoQRRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, clienteRepo, rolRepo, sesionRepo, emails, cfg)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, clienteRepo, rolRepo)
	rolSvc := service.NewRolService(rolRepo)
	sesionSvc := service.NewSesionService(sesionRepo, loc)
	planSvc := service.NewPlanService(planRepo)
	membresiaSvc := service.NewMembresiaService(membresiaRepo, planRepo, clienteRepo, loc)
	pagoSvc := service.NewPagoService(pagoRepo, membresiaRepo, storage, loc)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	inventarioSvc := service.NewInventarioService(equipoRepo, categoriaRepo, mantenimientoRepo, storage, loc)
	asistenciaSvc := service.NewAsistenciaService(asistenciaRepo, usuarioRepo, codigoRepo, loc)
	codigoSvc := service.NewCodigoQRService(codigoRepo)
	reporteSvc := service.NewReporteService(asistenciaRepo, loc)
	dashboardSvc := service.NewDashboardService(dashboardRepo, rdb, time.Duration(cfg.DashboardCacheSeconds)*time.Second, loc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	rolesH := handler.NewRolesHandler(rolSvc)
	sesionesH := handler.NewSesionesHandler(sesionSvc)
	pagosH := handler.NewPagosHandler(planSvc, membresiaSvc, pagoSvc)
	inventarioH := handler.NewInventarioHandler(categoriaSvc, inventarioSvc)
	accesoH := handler.NewControlAccesoHandler(asistenciaSvc, codigoSvc, reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.Static(cfg.PublicBaseURL, cfg.UploadDir)

	api := r.Group("/api")

	auth := api.Group("/autenticacion")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/registro", middleware.LoginRateLimiter(), authH.Registro)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	admin := middleware.RequireRole(model.RolAdmin)
	staff := middleware.RequireRole(model.RolAdmin, model.RolRecepcion)
	lectores := middleware.RequireRole(model.RolAdmin, model.RolRecepcion, model.RolEntrenador)

	priv := api.Group("", jwtMW)
	{
		priv.GET("/autenticacion/perfil", authH.Perfil)

		usuarios := priv.Group("/usuario", admin)
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/:id", usuariosH.Obtener)
			usuarios.GET("/username/:username", usuariosH.ObtenerPorUsername)
			usuarios.POST("", usuariosH.Crear)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Eliminar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
			usuarios.GET("/:id/roles", usuariosH.ListarRoles)
			usuarios.POST("/:id/roles", usuariosH.AsignarRol)
			usuarios.DELETE("/:id/roles/:id_rol", usuariosH.RemoverRol)
		}

		roles := priv.Group("/rol", admin)
		{
			roles.GET("", rolesH.Listar)
			roles.GET("/:id", rolesH.Obtener)
			roles.POST("", rolesH.Crear)
			roles.PUT("/:id", rolesH.Actualizar)
			roles.DELETE("/:id", rolesH.Eliminar)
			roles.GET("/:id/usuarios", rolesH.ListarUsuarios)
		}

		sesiones := priv.Group("/sesion", admin)
		{
			sesiones.GET("", sesionesH.Listar)
			sesiones.GET("/por-dia", sesionesH.PorDia)
		}

		clientes := priv.Group("/cliente", staff)
		{
			clientes.GET("/:id_usuario", usuariosH.ObtenerCliente)
			clientes.PUT("/:id_usuario", usuariosH.ActualizarCliente)
		}

		pagos := priv.Group("/pagos", staff)
		{
			pagos.GET("/planes", pagosH.ListarPlanes)
			pagos.GET("/planes/:id", pagosH.ObtenerPlan)
			pagos.POST("/planes", admin, pagosH.CrearPlan)
			pagos.PUT("/planes/:id", admin, pagosH.ActualizarPlan)
			pagos.DELETE("/planes/:id", admin, pagosH.EliminarPlan)

			pagos.GET("/membresias", pagosH.ListarMembresias)
			pagos.GET("/membresias/:id", pagosH.ObtenerMembresia)
			pagos.POST("/membresias", pagosH.CrearMembresia)
			pagos.PUT("/membresias/:id", pagosH.ActualizarMembresia)
			pagos.DELETE("/membresias/:id", pagosH.EliminarMembresia)

			pagos.GET("/pagos", pagosH.ListarPagos)
			pagos.GET("/pagos/:id", pagosH.ObtenerPago)
			pagos.POST("/pagos", pagosH.CrearPago)
			pagos.DELETE("/pagos/:id", admin, pagosH.AnularPago)
			pagos.POST("/pagos/:id/comprobante", pagosH.SubirComprobante)
			pagos.GET("/pagos/:id/recibo", pagosH.Recibo)
		}

		// Inventario: staff and trainers read, admin writes
		inv := priv.Group("/inventario", lectores)
		{
			inv.GET("/categorias", inventarioH.ListarCategorias)
			inv.GET("/categorias/:id", inventarioH.ObtenerCategoria)
			inv.POST("/categorias", admin, inventarioH.CrearCategoria)
			inv.PUT("/categorias/:id", admin, inventarioH.ActualizarCategoria)
			inv.DELETE("/categorias/:id", admin, inventarioH.EliminarCategoria)

			inv.GET("/equipos", inventarioH.ListarEquipos)
			inv.GET("/equipos/:id", inventarioH.ObtenerEquipo)
			inv.POST("/equipos", admin, inventarioH.CrearEquipo)
			inv.PUT("/equipos/:id", admin, inventarioH.ActualizarEquipo)
			inv.DELETE("/equipos/:id", admin, inventarioH.EliminarEquipo)
			inv.POST("/equipos/:id/foto", admin, inventarioH.SubirFoto)

			inv.GET("/mantenimientos", inventarioH.ListarMantenimientos)
			inv.GET("/mantenimientos/:id", inventarioH.ObtenerMantenimiento)
			inv.POST("/mantenimientos", admin, inventarioH.CrearMantenimiento)
			inv.PUT("/mantenimientos/:id", admin, inventarioH.ActualizarMantenimiento)
			inv.DELETE("/mantenimientos/:id", admin, inventarioH.EliminarMantenimiento)
		}

		asis := priv.Group("/control-acceso/asistencia")
		{
			// any authenticated user; a cliente may only register itself
			asis.POST("/qr", accesoH.RegistrarQR)
			asis.GET("/mi-asistencia", accesoH.MiAsistencia)

			asis.POST("/manual", staff, accesoH.RegistrarManual)
			asis.GET("", staff, accesoH.ListarAdmin)
			asis.GET("/usuario/:id_usuario", staff, accesoH.PorUsuario)
			asis.GET("/por-dia", staff, accesoH.PorDia)
			asis.GET("/exportar", admin, accesoH.Exportar)
		}

		qr := priv.Group("/control-acceso/codigo-qr", staff)
		{
			qr.GET("", accesoH.ListarCodigos)
			qr.GET("/actual", accesoH.CodigoActual)
			qr.GET("/actual/imagen", accesoH.ImagenActual)
			qr.POST("/manual", admin, accesoH.EmitirManual)
			qr.POST("/automatico", admin, accesoH.EmitirAutomatico)
		}

		priv.GET("/dashboard/admin/hoy", admin, handler.Dashboard(dashboardSvc))
	}

	return r, &Servicios{Asistencias: asistenciaSvc, Codigos: codigoSvc}
}
