package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RevocationRepository keeps revoked refresh token ids in the
// revoked_refresh_tokens table. Rows past expires_at are ignored and removed
// by Purge.
type RevocationRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRevocationRepository(db *sql.DB) *RevocationRepository {
	return &RevocationRepository{db: db, now: time.Now}
}

// Revoke reports false when the id was already present, so concurrent callers
// cannot both consume the same token.
func (r *RevocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if tokenID == "" {
		return false, errors.New("token id is required")
	}
	if ttl <= 0 {
		return true, nil
	}

	query := `
		INSERT INTO revoked_refresh_tokens (token_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO NOTHING
		RETURNING token_id
	`
	var inserted string
	err := r.db.QueryRowContext(ctx, query, tokenID, r.now().Add(ttl).UTC()).Scan(&inserted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return true, nil
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM revoked_refresh_tokens
			WHERE token_id = $1 AND expires_at > $2
		)
	`
	var revoked bool
	if err := r.db.QueryRowContext(ctx, query, tokenID, r.now().UTC()).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return revoked, nil
}

// Purge deletes entries whose tokens have expired anyway.
func (r *RevocationRepository) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revoked_refresh_tokens WHERE expires_at <= $1`, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", err)
	}
	return res.RowsAffected()
}
