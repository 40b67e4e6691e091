package repository

import (
	"context"
	"database/sql"
	"strings"
)

// PackingRepo reconciles the gig_packing child collection.
type PackingRepo struct{ DB *sql.DB }

func NewPackingRepo(db *sql.DB) *PackingRepo { return &PackingRepo{DB: db} }

// PackingItemRecord carries one submitted packing checklist entry.
type PackingItemRecord struct {
	ID    *uint64
	Label string
}

// ListIDsTx returns the set of persisted item identities for the gig.
func (r *PackingRepo) ListIDsTx(ctx context.Context, tx *sql.Tx, gigID uint64) ([]uint64, error) {
	return queryIDsTx(ctx, tx, `SELECT id FROM gig_packing WHERE gig_id = ?`, gigID)
}

// DeleteTx removes the given items from the gig.
func (r *PackingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, gigID uint64, ids []uint64) error {
	return deleteByIDsTx(ctx, tx, "gig_packing", gigID, ids)
}

// UpsertTx inserts or updates one submitted item at the given position.
// The gig_id guard on the update keeps a submitted id from rewriting
// another gig's row.
func (r *PackingRepo) UpsertTx(ctx context.Context, tx *sql.Tx, gigID uint64, sort int, rec PackingItemRecord) error {
	if rec.ID != nil {
		const q = `UPDATE gig_packing SET label=?, sort_order=? WHERE id=? AND gig_id=?`
		_, err := tx.ExecContext(ctx, q, rec.Label, sort, *rec.ID, gigID)
		return Classify(err)
	}
	const q = `INSERT INTO gig_packing (gig_id, label, sort_order) VALUES (?,?,?)`
	_, err := tx.ExecContext(ctx, q, gigID, rec.Label, sort)
	return Classify(err)
}

// queryIDsTx runs an id-listing query inside the transaction and
// collects the result set.
func queryIDsTx(ctx context.Context, tx *sql.Tx, query string, gigID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, query, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// deleteByIDsTx deletes child rows of a gig by id.  The gig_id guard
// keeps a stray submitted id from touching another gig's rows.
func deleteByIDsTx(ctx context.Context, tx *sql.Tx, table string, gigID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, gigID)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	query := `DELETE FROM ` + table + ` WHERE gig_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)`
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
