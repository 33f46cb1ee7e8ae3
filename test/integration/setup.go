package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/vncsmyrnk/storefront/internal/adapters/handler/http"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository/mongodb"
	repo "github.com/vncsmyrnk/storefront/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/storefront/internal/adapters/revocation"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
	"github.com/vncsmyrnk/storefront/internal/core/services"
)

var testTokenConfig = services.TokenConfig{
	AccessSecret:  []byte(strings.Repeat("a", 32)),
	RefreshSecret: []byte(strings.Repeat("r", 32)),
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    7 * 24 * time.Hour,
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupMongoContainer(ctx context.Context) (testcontainers.Container, string, error) {
	mongoContainer, err := tcmongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, "", fmt.Errorf("failed to start mongodb container: %w", err)
	}

	connStr, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		return nil, "", err
	}

	return mongoContainer, connStr, nil
}

// backend is a credential store running in a container.
type backend struct {
	Name        string
	Users       ports.UserRepository
	Revocations ports.RevocationStore
	DB          *sql.DB
	Mongo       *mongo.Client
	Container   testcontainers.Container
}

func (b *backend) Teardown(t *testing.T) {
	if b.DB != nil {
		b.DB.Close()
	}
	if b.Mongo != nil {
		_ = b.Mongo.Disconnect(context.Background())
	}
	if err := b.Container.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func setupPostgresBackend(t *testing.T) *backend {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = repo.MigrateUp(ctx, db)
	require.NoError(t, err)

	return &backend{
		Name:        "postgres",
		Users:       repo.NewUserRepository(db),
		Revocations: repo.NewRevocationRepository(db),
		DB:          db,
		Container:   dbContainer,
	}
}

func setupMongoBackend(t *testing.T) *backend {
	t.Helper()
	ctx := context.Background()

	mongoContainer, uri, err := setupMongoContainer(ctx)
	require.NoError(t, err)

	client, err := mongodb.Connect(ctx, uri)
	require.NoError(t, err)

	users := mongodb.NewUserRepository(client.Database("storefront_test"))
	require.NoError(t, users.EnsureIndexes(ctx))

	return &backend{
		Name:        "mongodb",
		Users:       users,
		Revocations: revocation.NoopStore{},
		Mongo:       client,
		Container:   mongoContainer,
	}
}

// forEachBackend runs fn once per credential store.
func forEachBackend(t *testing.T, fn func(t *testing.T, b *backend)) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	backends := []struct {
		name  string
		setup func(*testing.T) *backend
	}{
		{"postgres", setupPostgresBackend},
		{"mongodb", setupMongoBackend},
	}
	for _, bk := range backends {
		t.Run(bk.name, func(t *testing.T) {
			b := bk.setup(t)
			defer b.Teardown(t)
			fn(t, b)
		})
	}
}

type TestApp struct {
	Server *httptest.Server
	Client *http.Client
	Users  ports.UserRepository
	Hasher ports.PasswordHasher
}

func setupTestApp(t *testing.T, users ports.UserRepository, revocations ports.RevocationStore) *TestApp {
	t.Helper()

	tokens := services.NewTokenService(testTokenConfig)
	hasher := services.NewBcryptHasher(bcrypt.MinCost)
	authSvc := services.NewAuthService(users, tokens, hasher, revocations, nil)
	userSvc := services.NewUserService(users)

	router := handler.NewHandler(
		handler.NewAuthHandler(authSvc, handler.CookieConfig{}, false, nil),
		handler.NewUserHandler(userSvc, false, nil),
		handler.NewAuthenticator(authSvc, false, nil),
		[]string{"*"},
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestApp{
		Server: server,
		Client: server.Client(),
		Users:  users,
		Hasher: hasher,
	}
}
