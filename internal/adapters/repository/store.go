// Package repository opens the credential store named by the configuration.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository/mongodb"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/storefront/internal/config"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
)

type Store struct {
	Kind  string
	Users ports.UserRepository
	// Revocations is set only for stores that can keep the refresh token
	// denylist themselves.
	Revocations ports.RevocationStore

	close func(context.Context) error
}

func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch kind := cfg.DatabaseKind(); kind {
	case config.DatabaseMongo:
		client, err := mongodb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		users := mongodb.NewUserRepository(client.Database(cfg.MongoDatabase))
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{Kind: kind, Users: users, close: client.Disconnect}, nil

	case config.DatabasePostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		return &Store{
			Kind:        kind,
			Users:       postgres.NewUserRepository(db),
			Revocations: postgres.NewRevocationRepository(db),
			close:       func(context.Context) error { return db.Close() },
		}, nil

	case config.DatabaseMemory:
		return &Store{Kind: kind, Users: memory.NewUserRepository()}, nil

	default:
		return nil, errors.New("unsupported DATABASE_URL scheme")
	}
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
