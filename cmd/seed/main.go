// Command seed creates a development user with a first workspace so the API
// is usable immediately after migrations. Safe to run repeatedly.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	authservice "atlasynq/control-plane/internal/auth/service"
	"atlasynq/control-plane/internal/config"
	"atlasynq/control-plane/internal/db"
	"atlasynq/control-plane/internal/security"
	tenantrepo "atlasynq/control-plane/internal/tenant/repository"
	tenantservice "atlasynq/control-plane/internal/tenant/service"
	userrepo "atlasynq/control-plane/internal/user/repository"
)

const (
	devEmail     = "dev@example.com"
	devFullName  = "Dev User"
	devPassword  = "devpassword"
	devWorkspace = "Dev Workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("CP_DATABASE_URL is not set; seeding needs a database")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	tenants := tenantrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, devEmail)
	if err != nil {
		log.Fatalf("lookup dev user: %v", err)
	}
	if existing != nil {
		log.Printf("dev user %s already exists, nothing to do", devEmail)
		return
	}

	hasher := security.NewHasher(
		uint32(cfg.Argon2MemoryKB),
		uint32(cfg.Argon2Time),
		uint8(cfg.Argon2Parallelism),
	)
	tokens := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.AccessTTL())

	auth := authservice.NewAuthService(users, hasher, tokens)
	if _, err := auth.Signup(ctx, devFullName, devEmail, devPassword); err != nil {
		log.Fatalf("create dev user: %v", err)
	}

	user, err := users.GetByEmail(ctx, devEmail)
	if err != nil || user == nil {
		log.Fatalf("reload dev user: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	provisioner := tenantservice.NewProvisioner(tenants, logger)
	ws, err := provisioner.CreateWorkspace(ctx, user, devWorkspace)
	if err != nil {
		log.Fatalf("create dev workspace: %v", err)
	}

	log.Printf("seeded dev user %s with workspace %s (%s)", devEmail, ws.Name, ws.ID)
}
