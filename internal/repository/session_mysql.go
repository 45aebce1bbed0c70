package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

// MySQLSessionRepo persists refresh token hashes in the refresh_tokens
// table.  Revoked rows are kept with revoked_at set.
type MySQLSessionRepo struct{ DB *sql.DB }

func NewMySQLSessionRepo(db *sql.DB) *MySQLSessionRepo { return &MySQLSessionRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *MySQLSessionRepo) StoreRefresh(ctx context.Context, tokenHash string, s model.Session, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (token_hash, username, role, expires_at) VALUES (?,?,?,?)",
		tokenHash, s.Username, s.Role, exp.UTC())
	if err != nil {
		return fmt.Errorf("store refresh: %w", err)
	}
	return nil
}

// ValidateRefresh returns the session of a non-revoked, non-expired token.
func (r *MySQLSessionRepo) ValidateRefresh(ctx context.Context, tokenHash string) (model.Session, error) {
	var (
		s         model.Session
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, role, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&s.Username, &s.Role, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrInvalidRefresh
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("load refresh: %w", err)
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return model.Session{}, ErrInvalidRefresh
	}
	return s, nil
}

// RevokeByHash marks a token as revoked.
func (r *MySQLSessionRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes every active token of username.
func (r *MySQLSessionRepo) RevokeAllForUser(ctx context.Context, username string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE username=? AND revoked_at IS NULL",
		username)
	return err
}
