package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository"
	"github.com/vncsmyrnk/storefront/internal/config"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
	"github.com/vncsmyrnk/storefront/internal/core/services"
)

// createadmin seeds the first administrator. Later admins are registered by
// an existing admin through the API.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	var name, email, password string
	flag.StringVar(&name, "name", valueOr(os.Getenv("ADMIN_NAME"), "Admin"), "Admin display name")
	flag.StringVar(&email, "email", os.Getenv("ADMIN_EMAIL"), "Admin email")
	flag.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "Admin password")
	flag.Parse()

	if email == "" || password == "" {
		slog.Error("email and password are required")
		os.Exit(2)
	}

	cfg, err := config.StoreFromEnv(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open credential store", "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	created, err := services.SeedAdmin(ctx, store.Users, services.NewBcryptHasher(cfg.BcryptCost), ports.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		slog.Error("failed to create admin", "error", err)
		os.Exit(1)
	}
	if !created {
		slog.Info("admin user already exists", "email", email)
		return
	}
	slog.Info("admin user created", "email", email)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

