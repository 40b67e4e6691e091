package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists refresh token sessions.  Only the SHA-256 hash of
// the raw token is stored; the raw value never touches the database, so
// a leaked table does not yield usable sessions.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a freshly issued refresh token hash with its
// expiry.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)`
	_, err := r.DB.ExecContext(ctx, q, userID, tokenHash, exp)
	return err
}

// ValidateRefresh resolves a token hash to its user.  Revoked and
// expired tokens report sql.ErrNoRows just like unknown ones, so the
// caller cannot distinguish the cases.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	const q = `SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1`
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, q, tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid {
		return 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return userID, nil
}

// RevokeByHash ends the single session identified by the token hash.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	const q = `UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL`
	_, err := r.DB.ExecContext(ctx, q, tokenHash)
	return err
}

// RevokeAllForUser ends every active session of the user, used by the
// logout-everywhere path.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	const q = `UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL`
	_, err := r.DB.ExecContext(ctx, q, userID)
	return err
}
