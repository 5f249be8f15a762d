// migrate runs DB migrations from embedded SQL; use with go run ./cmd/migrate.
package main

import (
	"flag"
	"fmt"
	"os"

	"atlasynq/control-plane/internal/config"
	"atlasynq/control-plane/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "CP_DATABASE_URL is not set; create a .env from .env.example or set CP_DATABASE_URL")
		os.Exit(1)
	}

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
