// Command seedadmin creates one admin account, or promotes the account if the
// email is already registered. Intended for first-time setup:
//
//	ADMIN_EMAIL=ops@example.com ADMIN_PASSWORD=... go run ./cmd/seedadmin
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/quantumsec/phishguard/internal/dashboard/app"
	"github.com/quantumsec/phishguard/internal/dashboard/domain"
	"github.com/quantumsec/phishguard/internal/dashboard/store"
	"github.com/quantumsec/phishguard/internal/dashboard/store/drivers/sqlite"
	"github.com/quantumsec/phishguard/pkg/cryptox"
	"github.com/quantumsec/phishguard/pkg/idx"
)

func main() {
	cfg := app.LoadConfig()
	cryptox.SetPepperPath(cfg.PepperFile)

	email := envOrDefault("ADMIN_EMAIL", "admin@example.com")
	password := envOrDefault("ADMIN_PASSWORD", "admin123")
	name := envOrDefault("ADMIN_NAME", "Admin")

	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	ctx := context.Background()

	existing, err := db.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := db.Users().UpdateUserRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			log.Fatalf("failed to promote user: %v", err)
		}
		log.Printf("updated existing user to admin: %s", email)

	case errors.Is(err, store.ErrNotFound):
		hash, err := cryptox.HashPassword(password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		u := domain.User{
			ID:           idx.New().String(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			CreatedAt:    time.Now().UTC(),
		}
		if err := db.Users().CreateUser(ctx, u); err != nil {
			log.Fatalf("failed to create admin: %v", err)
		}
		log.Printf("created admin user: %s", email)

	default:
		log.Fatalf("failed to look up user: %v", err)
	}
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
