package repository

import (
	"context"
	"database/sql"
)

// MaterialRepo reconciles the gig_materials child collection with the
// same diff-by-identity pattern as ScheduleRepo.
type MaterialRepo struct{ DB *sql.DB }

func NewMaterialRepo(db *sql.DB) *MaterialRepo { return &MaterialRepo{DB: db} }

// MaterialItemRecord carries one submitted material link.
type MaterialItemRecord struct {
	ID    *uint64
	Label string
	URL   string
	Kind  string
}

// ListIDsTx returns the set of persisted item identities for the gig.
func (r *MaterialRepo) ListIDsTx(ctx context.Context, tx *sql.Tx, gigID uint64) ([]uint64, error) {
	return queryIDsTx(ctx, tx, `SELECT id FROM gig_materials WHERE gig_id = ?`, gigID)
}

// DeleteTx removes the given items from the gig.
func (r *MaterialRepo) DeleteTx(ctx context.Context, tx *sql.Tx, gigID uint64, ids []uint64) error {
	return deleteByIDsTx(ctx, tx, "gig_materials", gigID, ids)
}

// UpsertTx inserts or updates one submitted item at the given position.
// The gig_id guard on the update keeps a submitted id from rewriting
// another gig's row.
func (r *MaterialRepo) UpsertTx(ctx context.Context, tx *sql.Tx, gigID uint64, sort int, rec MaterialItemRecord) error {
	if rec.ID != nil {
		const q = `UPDATE gig_materials SET label=?, url=?, kind=?, sort_order=? WHERE id=? AND gig_id=?`
		_, err := tx.ExecContext(ctx, q, rec.Label, rec.URL, rec.Kind, sort, *rec.ID, gigID)
		return Classify(err)
	}
	const q = `INSERT INTO gig_materials (gig_id, label, url, kind, sort_order) VALUES (?,?,?,?,?)`
	_, err := tx.ExecContext(ctx, q, gigID, rec.Label, rec.URL, rec.Kind, sort)
	return Classify(err)
}
