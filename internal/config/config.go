// Package config builds the immutable process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DatabaseMongo    = "mongodb"
	DatabasePostgres = "postgres"
	DatabaseMemory   = "memory"

	minSecretLength = 32
	maxRefreshTTL   = 30 * 24 * time.Hour
)

type Config struct {
	Env      string
	Port     string
	LogLevel slog.Level

	DatabaseURL   string
	MongoDatabase string
	RedisURL      string

	JWT JWT

	RefreshRevocation  bool
	BcryptCost         int
	CORSAllowedOrigins []string
}

type JWT struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DatabaseKind derives the credential store from the DATABASE_URL scheme.
// It returns "" for an unsupported scheme.
func (c Config) DatabaseKind() string {
	scheme, _, _ := strings.Cut(c.DatabaseURL, "://")
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return DatabaseMongo
	case "postgres", "postgresql":
		return DatabasePostgres
	case "memory":
		return DatabaseMemory
	default:
		return ""
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg, err := parse(getenv)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// StoreFromEnv is FromEnv for tools that only open the credential store.
// JWT secrets are not required.
func StoreFromEnv(getenv func(string) string) (Config, error) {
	cfg, err := parse(getenv)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ValidateStore(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:           valueOr(getenv("APP_ENV"), EnvDevelopment),
		Port:          valueOr(getenv("PORT"), "5000"),
		DatabaseURL:   valueOr(getenv("DATABASE_URL"), getenv("MONGODB_URI")),
		MongoDatabase: valueOr(getenv("MONGODB_DATABASE"), "storefront"),
		RedisURL:      getenv("REDIS_URL"),
		JWT: JWT{
			AccessSecret:  []byte(getenv("JWT_ACCESS_SECRET")),
			RefreshSecret: []byte(getenv("JWT_REFRESH_SECRET")),
		},
		BcryptCost:         bcrypt.DefaultCost,
		CORSAllowedOrigins: splitList(valueOr(getenv("CORS_ALLOWED_ORIGINS"), "http://localhost:5173")),
	}

	var err error
	if cfg.JWT.AccessTTL, err = durationOr(getenv("ACCESS_TOKEN_TTL"), 15*time.Minute); err != nil {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL: %w", err)
	}
	if cfg.JWT.RefreshTTL, err = durationOr(getenv("REFRESH_TOKEN_TTL"), 7*24*time.Hour); err != nil {
		return Config{}, fmt.Errorf("REFRESH_TOKEN_TTL: %w", err)
	}
	if v := getenv("REFRESH_REVOCATION"); v != "" {
		if cfg.RefreshRevocation, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("REFRESH_REVOCATION: %w", err)
		}
	}
	if v := getenv("BCRYPT_COST"); v != "" {
		if cfg.BcryptCost, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("BCRYPT_COST: %w", err)
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}
	if err := c.JWT.Validate(); err != nil {
		return err
	}
	// Postgres can hold the revocation list itself; other stores need redis.
	if c.RefreshRevocation && c.RedisURL == "" && c.DatabaseKind() != DatabasePostgres {
		return errors.New("REFRESH_REVOCATION requires REDIS_URL unless DATABASE_URL is postgres")
	}
	return nil
}

// ValidateStore checks the settings needed to open the store and hash passwords.
func (c Config) ValidateStore() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.DatabaseKind() == "" {
		return errors.New("DATABASE_URL must use the mongodb, postgres or memory scheme")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func (j JWT) Validate() error {
	if len(j.AccessSecret) == 0 {
		return errors.New("JWT_ACCESS_SECRET is required")
	}
	if len(j.RefreshSecret) == 0 {
		return errors.New("JWT_REFRESH_SECRET is required")
	}
	if len(j.AccessSecret) < minSecretLength || len(j.RefreshSecret) < minSecretLength {
		return fmt.Errorf("jwt secrets must be at least %d bytes", minSecretLength)
	}
	if string(j.AccessSecret) == string(j.RefreshSecret) {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if j.AccessTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if j.RefreshTTL <= j.AccessTTL {
		return errors.New("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL")
	}
	if j.RefreshTTL > maxRefreshTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL must not exceed %s", maxRefreshTTL)
	}
	return nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func durationOr(v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
