// cmd/seedadmin/main.go: creates or resets a back-office account.
// Usage: go run ./cmd/seedadmin -username owner -password secret123 -role super_admin
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"frozenshop/internal/authz"
	"frozenshop/internal/config"
	"frozenshop/internal/infra"
	"frozenshop/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", envOr("SEED_ADMIN_USERNAME", "owner"), "admin username")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password (min 8 chars)")
	fullName := flag.String("name", envOr("SEED_ADMIN_NAME", "Store Owner"), "display name")
	role := flag.String("role", envOr("SEED_ADMIN_ROLE", authz.RoleSuperAdmin), "super_admin | admin | staff")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("password must be at least 8 characters (-password or SEED_ADMIN_PASSWORD)")
	}
	if !authz.ValidRole(*role) {
		log.Fatal().Str("role", *role).Msg("unknown role")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Migrations)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	hash, err := service.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO admins (username, full_name, password_hash, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, true, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    full_name = EXCLUDED.full_name,
		    role = EXCLUDED.role,
		    is_active = true,
		    remember_token_hash = NULL,
		    updated_at = NOW()
	`, *username, *fullName, hash, *role)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("upsert failed")
	}
	log.Info().Str("username", *username).Str("role", *role).Msg("admin account ready")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
