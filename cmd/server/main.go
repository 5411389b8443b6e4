package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/config"
	"gymdesk/internal/infra"
	"gymdesk/internal/repository"
	"gymdesk/internal/router"
	"gymdesk/internal/service"
	"gymdesk/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger. dev: pretty, prod: JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authSvc := service.NewAuthService(repository.NewUsuarioRepository(db), repository.NewSucursalRepository(db),
		auth.NewJWTService(cfg.JWTSecret, "gymdesk"), cfg)
	created, err := authSvc.AsegurarSuperUsuario(ctx, cfg.SuperUserUsername, cfg.SuperUserEmail, cfg.SuperUserPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap superuser")
	}
	if created {
		log.Warn().Str("username", cfg.SuperUserUsername).Msg("superuser created, change its password")
	}

	// Worker handlers are wired here (composition root); the pool consumes
	// the welcome emails the purchase enqueues.
	mailer := infra.NewMailer(cfg)
	pool := worker.NewPool(rdb)
	pool.Register(worker.JobBienvenida, worker.NewEmailWorker(mailer, cfg.PDFStoragePath))
	pool.Start(ctx, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, mailer)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("gymdesk listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
