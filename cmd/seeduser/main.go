// cmd/seeduser/main.go: creates or resets the initial admin account.
// Usage: SEED_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"os"
	"time"

	"gimnasio/internal/config"
	"gimnasio/internal/infra"
	"gimnasio/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	username := envOr("SEED_USERNAME", "admin")
	email := envOr("SEED_EMAIL", "admin@gimnasio.local")
	password := os.Getenv("SEED_PASSWORD")
	if len(password) < 8 {
		log.Fatal().Msg("SEED_PASSWORD must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrations error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := db.WithContext(ctx).Exec(`
		INSERT INTO usuarios (id_rol, nombre, apellido, email, username, password_hash, estado)
		SELECT r.id, 'Administrador', 'Gimnasio', ?, ?, ?, 'activo'
		FROM roles r WHERE r.nombre = ?
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    id_rol = EXCLUDED.id_rol,
		    estado = 'activo',
		    updated_at = now()
	`, email, username, string(hash), model.RolAdmin)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert error")
	}
	if result.RowsAffected == 0 {
		log.Fatal().Str("rol", model.RolAdmin).Msg("role not found; migrations did not seed it")
	}
	log.Info().Str("username", username).Str("email", email).Msg("admin user created/updated")
}
