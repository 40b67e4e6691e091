package repository

import (
	"context"
	"database/sql"
)

// ScheduleRepo reconciles the gig_schedule child collection.  All write
// methods run inside the gig pack save transaction; the repo never
// mutates rows outside of it.
type ScheduleRepo struct{ DB *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{DB: db} }

// ScheduleItemRecord carries one submitted schedule line.  ID is nil
// for new items and set for items that should keep their stored row.
type ScheduleItemRecord struct {
	ID    *uint64
	At    string
	Label string
}

// ListIDsTx returns the set of persisted item identities for the gig.
func (r *ScheduleRepo) ListIDsTx(ctx context.Context, tx *sql.Tx, gigID uint64) ([]uint64, error) {
	return queryIDsTx(ctx, tx, `SELECT id FROM gig_schedule WHERE gig_id = ?`, gigID)
}

// DeleteTx removes the given items from the gig.
func (r *ScheduleRepo) DeleteTx(ctx context.Context, tx *sql.Tx, gigID uint64, ids []uint64) error {
	return deleteByIDsTx(ctx, tx, "gig_schedule", gigID, ids)
}

// UpsertTx inserts or updates one submitted item.  The sort order is
// the item's position in the submitted array, keeping the persisted
// ordering dense and zero-based.  The gig_id guard on the update keeps
// a submitted id from rewriting another gig's row.
func (r *ScheduleRepo) UpsertTx(ctx context.Context, tx *sql.Tx, gigID uint64, sort int, rec ScheduleItemRecord) error {
	if rec.ID != nil {
		const q = `UPDATE gig_schedule SET at_label=?, label=?, sort_order=? WHERE id=? AND gig_id=?`
		_, err := tx.ExecContext(ctx, q, rec.At, rec.Label, sort, *rec.ID, gigID)
		return Classify(err)
	}
	const q = `INSERT INTO gig_schedule (gig_id, at_label, label, sort_order) VALUES (?,?,?,?)`
	_, err := tx.ExecContext(ctx, q, gigID, rec.At, rec.Label, sort)
	return Classify(err)
}
