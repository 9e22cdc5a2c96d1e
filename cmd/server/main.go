package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gimnasio/internal/config"
	"gimnasio/internal/infra"
	"gimnasio/internal/router"
	"gimnasio/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		// dev: pretty console, prod: JSON on stdout
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Email worker pool; SMTP sends go through the circuit breaker
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.MailerCBConfig())
	pool := worker.NewPool(rdb, cfg.WorkerPoolSize, cfg.EmailMaxIntentos)
	pool.Register(worker.QueueEmail, worker.JobTypeEmail, worker.NewEmailWorker(mailer, smtpCB))
	pool.Start(ctx)

	r, svcs := router.New(cfg, db, rdb)

	// A valid access code must exist before the first scan.
	if c, creado, err := svcs.Codigos.EmitirAutomatico(ctx); err != nil {
		log.Error().Err(err).Msg("startup QR issuance failed")
	} else {
		log.Info().Str("codigo", c.CodigoQR).Bool("creado", creado).Str("expira", c.FechaExpiracion).Msg("access code ready")
	}

	scheduler := worker.NewScheduler(cfg.Location())
	if err := scheduler.Add(ctx, "rotacion_qr", cfg.QRRotationCron, func(ctx context.Context) error {
		c, creado, err := svcs.Codigos.EmitirAutomatico(ctx)
		if err != nil {
			return err
		}
		if creado {
			log.Info().Str("codigo", c.CodigoQR).Msg("access code rotated")
		}
		return nil
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.QRRotationCron).Msg("invalid QR_ROTATION_CRON")
	}
	if err := scheduler.Add(ctx, "cierre_asistencias", cfg.AsistenciaCierreCron, func(ctx context.Context) error {
		n, err := svcs.Asistencias.CerrarAbiertasVencidas(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("cerradas", n).Msg("stale attendance records closed")
		return nil
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.AsistenciaCierreCron).Msg("invalid ASISTENCIA_CIERRE_CRON")
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("env", cfg.Env).Str("tz", cfg.Location().String()).Msgf("gimnasio backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	scheduler.Stop(shutdownCtx)
	cancel()
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
