package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tabelionato_app_go/config"
	"tabelionato_app_go/db"
	"tabelionato_app_go/handlers"
	"tabelionato_app_go/middleware"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"
	"tabelionato_app_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	services.InitializeStorage(cfg)
	services.InitLoginMonitor(func(a services.LoginAlert) {
		services.LogSecurityAudit(db.DB, services.AuditContext{IPAddress: a.IP}, "LOGIN_BRUTE_FORCE",
			fmt.Sprintf("%d tentativas de login malsucedidas de %s (%s)", a.Attempts, a.IP, strings.Join(a.Usernames, ", ")))
	})
	middleware.InitAssetVersions()

	scheduler, err := jobs.StartScheduler(db.DB, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	e := newServer(cfg)

	go func() {
		log.Info().Str("port", cfg.ServerPort).Str("env", cfg.Environment).Msg("server starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

func newServer(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.BodyLimit("25M"))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         hstsMaxAge(cfg),
		ReferrerPolicy:     "same-origin",
	}))
	e.Use(middleware.CSPNonce())
	e.Use(middleware.CSRF(cfg.IsProduction()))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.RequireSetup())

	e.Static("/static", middleware.StaticDir)
	e.GET("/health", handlers.HealthHandler)

	// Bootstrap and session routes
	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRatePerMinute).Middleware()
	e.GET("/setup", handlers.SetupHandler)
	e.POST("/setup", handlers.SetupPostHandler, loginLimiter)
	e.GET("/login", handlers.LoginHandler)
	e.POST("/login", handlers.LoginPostHandler, loginLimiter)
	e.POST("/logout", handlers.LogoutHandler)

	// Public status page linked from the receipt
	e.GET("/consulta/:hash", handlers.ConsultaHandler)

	protected := e.Group("")
	protected.Use(middleware.RequireAuth())
	protected.Use(middleware.AuditContext())
	{
		protected.GET("/", handlers.HomeHandler)

		protected.GET("/clientes", handlers.ClientesListHandler)
		protected.GET("/clientes/exportar", handlers.ClientesExportHandler)
		protected.GET("/clientes/novo", handlers.ClienteNewHandler)
		protected.POST("/clientes/novo", handlers.ClienteCreateHandler)
		protected.GET("/clientes/:id", handlers.ClienteDetailHandler)
		protected.GET("/clientes/:id/editar", handlers.ClienteEditHandler)
		protected.POST("/clientes/:id/editar", handlers.ClienteUpdateHandler)
		protected.POST("/clientes/:id/excluir", handlers.ClienteDeleteHandler)
		protected.GET("/api/clientes/lookup", handlers.ClienteLookupHandler)

		protected.GET("/protocolos", handlers.ProtocolosListHandler)
		protected.GET("/protocolos/exportar", handlers.ProtocolosExportHandler)
		protected.GET("/protocolos/certidao/novo", handlers.ProtocoloNewHandler(models.TipoProtocoloCertidao))
		protected.POST("/protocolos/certidao/novo", handlers.ProtocoloCreateHandler(models.TipoProtocoloCertidao))
		protected.GET("/protocolos/ato/novo", handlers.ProtocoloNewHandler(models.TipoProtocoloAtoNotarial))
		protected.POST("/protocolos/ato/novo", handlers.ProtocoloCreateHandler(models.TipoProtocoloAtoNotarial))
		protected.GET("/protocolos/:id", handlers.ProtocoloDetailHandler)
		protected.GET("/protocolos/:id/editar", handlers.ProtocoloEditHandler)
		protected.POST("/protocolos/:id/editar", handlers.ProtocoloUpdateHandler)
		protected.POST("/protocolos/:id/status", handlers.ProtocoloStatusHandler)
		protected.POST("/protocolos/:id/cancelar", handlers.ProtocoloCancelHandler)
		protected.POST("/protocolos/:id/comentarios", handlers.ProtocoloComentarioHandler)
		protected.POST("/protocolos/:id/escritura", handlers.ProtocoloEscrituraHandler)
		protected.POST("/protocolos/:id/imoveis", handlers.ProtocoloImovelAddHandler)
		protected.POST("/protocolos/:id/imoveis/:imovelId/excluir", handlers.ProtocoloImovelDeleteHandler)
		protected.POST("/protocolos/:id/arquivos", handlers.ProtocoloArquivoUploadHandler)
		protected.GET("/protocolos/:id/arquivos/:arquivoId", handlers.ProtocoloArquivoDownloadHandler)
		protected.POST("/protocolos/:id/arquivos/:arquivoId/excluir", handlers.ProtocoloArquivoDeleteHandler)
		protected.GET("/protocolos/:id/comprovante.pdf", handlers.ProtocoloComprovanteHandler)

		// Master-only routes
		master := protected.Group("")
		master.Use(middleware.RequireMaster())
		{
			master.POST("/protocolos/:id/excluir", handlers.ProtocoloDeleteHandler)

			master.GET("/usuarios", handlers.UsersListHandler)
			master.GET("/usuarios/novo", handlers.UserNewHandler)
			master.POST("/usuarios/novo", handlers.UserCreateHandler)
			master.GET("/usuarios/:id/editar", handlers.UserEditHandler)
			master.POST("/usuarios/:id/editar", handlers.UserUpdateHandler)
			master.POST("/usuarios/:id/excluir", handlers.UserDeleteHandler)

			master.GET("/configuracoes/tabelionato", handlers.TabelionatoHandler)
			master.POST("/configuracoes/tabelionato", handlers.TabelionatoPostHandler)

			master.GET("/tipos-ato", handlers.TiposAtoListHandler)
			master.GET("/tipos-ato/novo", handlers.TipoAtoNewHandler)
			master.POST("/tipos-ato/novo", handlers.TipoAtoCreateHandler)
			master.GET("/tipos-ato/:id/editar", handlers.TipoAtoEditHandler)
			master.POST("/tipos-ato/:id/editar", handlers.TipoAtoUpdateHandler)
			master.POST("/tipos-ato/:id/toggle", handlers.TipoAtoToggleHandler)
			master.POST("/tipos-ato/:id/excluir", handlers.TipoAtoDeleteHandler)

			// Development-only routes
			if cfg.Environment == "development" {
				master.GET("/dev/email/test", handlers.TestEmailHandler)
			}
		}
	}

	return e
}

func hstsMaxAge(cfg *config.Config) int {
	if cfg.IsProduction() {
		return 31536000
	}
	return 0
}
