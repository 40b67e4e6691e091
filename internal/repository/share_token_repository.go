package repository

import (
	"context"
	"database/sql"

	"github.com/mwaldr/gigpack-server/internal/model"
)

// ShareTokenRepo manages public share slugs.  A token string is unique
// across all gigs; at most one active token points at a gig.
type ShareTokenRepo struct{ DB *sql.DB }

func NewShareTokenRepo(db *sql.DB) *ShareTokenRepo { return &ShareTokenRepo{DB: db} }

// UpsertTx idempotently attaches the token to the gig inside the save
// transaction: insert if the token string is new, otherwise mark it
// active and repoint it at the gig.  A token owned by a different gig
// is repointed, which is intentional (the token value identifies the
// share, not the gig).
func (r *ShareTokenRepo) UpsertTx(ctx context.Context, tx *sql.Tx, gigID uint64, token string) error {
	const q = `INSERT INTO share_tokens (gig_id, token, is_active)
	           VALUES (?,?,1)
	           ON DUPLICATE KEY UPDATE gig_id=VALUES(gig_id), is_active=1`
	_, err := tx.ExecContext(ctx, q, gigID, token)
	return Classify(err)
}

// ActiveTokenTx returns the gig's active token inside the transaction,
// or sql.ErrNoRows when none exists.
func (r *ShareTokenRepo) ActiveTokenTx(ctx context.Context, tx *sql.Tx, gigID uint64) (string, error) {
	var token string
	err := tx.QueryRowContext(ctx,
		`SELECT token FROM share_tokens WHERE gig_id=? AND is_active=1 LIMIT 1`, gigID).Scan(&token)
	return token, err
}

// GigIDBySlug resolves an active public slug to its gig.
func (r *ShareTokenRepo) GigIDBySlug(ctx context.Context, slug string) (uint64, error) {
	var gigID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT gig_id FROM share_tokens WHERE token=? AND is_active=1 LIMIT 1`, slug).Scan(&gigID)
	return gigID, err
}

// GetActiveByGig returns the gig's active share token row.
func (r *ShareTokenRepo) GetActiveByGig(ctx context.Context, gigID uint64) (model.ShareToken, error) {
	var (
		t model.ShareToken
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, gig_id, token, is_active, created_at, updated_at
		 FROM share_tokens WHERE gig_id=? AND is_active=1 LIMIT 1`, gigID).
		Scan(&t.ID, &t.GigID, &t.Token, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Deactivate turns off all active tokens of the gig, unpublishing the
// share page.
func (r *ShareTokenRepo) Deactivate(ctx context.Context, gigID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE share_tokens SET is_active=0 WHERE gig_id=? AND is_active=1`, gigID)
	return err
}
