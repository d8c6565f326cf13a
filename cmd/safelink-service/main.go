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

	"gorm.io/gorm"

	"safelink-service/internal/auth"
	"safelink-service/internal/config"
	"safelink-service/internal/db"
	"safelink-service/internal/geo"
	httphandler "safelink-service/internal/http"
	"safelink-service/internal/http/middleware"
	"safelink-service/internal/logger"
	"safelink-service/internal/model"
	"safelink-service/internal/realtime"
	"safelink-service/internal/repository"
	"safelink-service/internal/service"
	"safelink-service/internal/store"
	"safelink-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open state store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kvRepo := repository.NewKVRepository(database)
	kvStore := store.New(kvRepo, cfg.Storage.Namespace, logger.Component(log, "store"))

	locator := geo.NewLocator(
		cfg.Location.Timeout,
		model.Location{Lat: cfg.Location.FallbackLat, Lng: cfg.Location.FallbackLng},
		logger.Component(log, "geo"),
	)
	scheduler := worker.NewCompletionScheduler(logger.Component(log, "scheduler"))

	registry := service.NewRegistry(ctx, kvStore, locator, scheduler, service.Options{
		CompletionDelay: cfg.Dispatch.CompletionDelay,
		SpeedKmh:        cfg.Dispatch.SpeedKmh,
		RouteSteps:      cfg.Dispatch.RouteSteps,
	}, logger.Component(log, "registry"))

	hub := realtime.NewHub(registry, logger.Component(log, "realtime"))
	registry.Subscribe(func(service.Event) { hub.Notify() })
	go hub.Run(ctx)

	tokens := auth.NewTokens(cfg.Session.Secret, cfg.Session.TTL)

	handler := httphandler.NewHandler(registry, tokens, healthCheck(database), logger.Component(log, "http"))
	router := httphandler.NewRouter(handler, middleware.Actor(tokens, registry), http.HandlerFunc(hub.ServeWS), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting safelink service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	scheduler.Stop()
	scheduler.Wait()

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
}

func healthCheck(database *gorm.DB) httphandler.HealthCheck {
	return func(ctx context.Context) error {
		return db.HealthCheck(ctx, database)
	}
}
