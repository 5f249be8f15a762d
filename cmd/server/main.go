package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atlasynq/control-plane/internal/auth/handler"
	authservice "atlasynq/control-plane/internal/auth/service"
	"atlasynq/control-plane/internal/config"
	"atlasynq/control-plane/internal/db"
	healthhandler "atlasynq/control-plane/internal/health/handler"
	"atlasynq/control-plane/internal/security"
	"atlasynq/control-plane/internal/server"
	"atlasynq/control-plane/internal/telemetry"
	otelsetup "atlasynq/control-plane/internal/telemetry/otel"
	tenanthandler "atlasynq/control-plane/internal/tenant/handler"
	tenantrepo "atlasynq/control-plane/internal/tenant/repository"
	tenantservice "atlasynq/control-plane/internal/tenant/service"
	userrepo "atlasynq/control-plane/internal/user/repository"
)

const serviceName = "control-plane-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := telemetry.SetupLogger(cfg.LogFormat, cfg.LogLevel)

	ctx := context.Background()
	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("CP_DATABASE_URL is not set; create a .env from .env.example or set CP_DATABASE_URL")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	hasher := security.NewHasher(
		uint32(cfg.Argon2MemoryKB),
		uint32(cfg.Argon2Time),
		uint8(cfg.Argon2Parallelism),
	)
	tokens := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.AccessTTL())

	users := userrepo.NewPostgresRepository(conn)
	tenants := tenantrepo.NewPostgresRepository(conn)

	auth := authservice.NewAuthService(users, hasher, tokens)
	provisioner := tenantservice.NewProvisioner(tenants, logger)

	router := server.NewRouter(
		logger,
		auth,
		handler.NewHandler(auth),
		tenanthandler.NewHandler(provisioner),
		healthhandler.NewHandler(serviceName, "0.1.0"),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logger.Error("otel shutdown", "error", err)
	}
	logger.Info("HTTP server stopped")
}
