package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/storefront/internal/adapters/handler/http"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository"
	"github.com/vncsmyrnk/storefront/internal/adapters/revocation"
	"github.com/vncsmyrnk/storefront/internal/config"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
	"github.com/vncsmyrnk/storefront/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	store, err := repository.Open(connectCtx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	logger.Info("credential store connected", "kind", store.Kind)

	revocations, closeRevocations, err := newRevocationStore(connectCtx, cfg, store)
	if err != nil {
		return err
	}
	defer closeRevocations()

	tokens := services.NewTokenService(services.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	authService := services.NewAuthService(store.Users, tokens, services.NewBcryptHasher(cfg.BcryptCost), revocations, logger)
	userService := services.NewUserService(store.Users)

	production := cfg.IsProduction()
	handler := http.NewHandler(
		http.NewAuthHandler(authService, http.CookieConfig{Secure: production}, production, logger),
		http.NewUserHandler(userService, production, logger),
		http.NewAuthenticator(authService, production, logger),
		cfg.CORSAllowedOrigins,
	)
	server := &stdhttp.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("gracefully shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	return server.Shutdown(shutdownCtx)
}

// newRevocationStore prefers redis and falls back to the credential store's
// own table. Revocation is off unless REFRESH_REVOCATION is set.
func newRevocationStore(ctx context.Context, cfg config.Config, store *repository.Store) (ports.RevocationStore, func(), error) {
	if !cfg.RefreshRevocation {
		return revocation.NoopStore{}, func() {}, nil
	}

	if cfg.RedisURL != "" {
		client, err := revocation.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return revocation.NewRedisStore(client), func() { client.Close() }, nil
	}

	if store.Revocations == nil {
		return nil, nil, errors.New("refresh revocation needs REDIS_URL for this credential store")
	}
	return store.Revocations, func() {}, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
