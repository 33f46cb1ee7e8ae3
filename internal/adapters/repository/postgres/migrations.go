package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationNames lists the embedded migration files in apply order.
func MigrationNames(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// MigrateUp applies every up migration. The files are idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	names, err := MigrationNames(".up.sql")
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := execMigration(ctx, db, name); err != nil {
			return err
		}
	}
	return nil
}

// ApplyMigration runs the single migration file whose name ends in
// migrationName + ".sql", e.g. "create_users.up".
func ApplyMigration(ctx context.Context, db *sql.DB, migrationName string) (string, error) {
	pattern, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid migration name: %w", err)
	}

	names, err := MigrationNames(".sql")
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if pattern.MatchString(name) {
			return name, execMigration(ctx, db, name)
		}
	}
	return "", fmt.Errorf("migration file not found: %s", migrationName)
}

func execMigration(ctx context.Context, db *sql.DB, name string) error {
	content, err := migrationFiles.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	return nil
}
