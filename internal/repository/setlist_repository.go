package repository

import (
	"context"
	"database/sql"
)

// SetlistRepo reconciles the two-level setlist structure.  Sections are
// diffed by identity like every other child collection; the items of a
// surviving section are replaced wholesale, since songs inside a
// section carry no external references of their own.
type SetlistRepo struct{ DB *sql.DB }

func NewSetlistRepo(db *sql.DB) *SetlistRepo { return &SetlistRepo{DB: db} }

// SetlistSectionRecord carries one submitted section.  ID is nil for
// new sections.
type SetlistSectionRecord struct {
	ID    *uint64
	Title string
}

// SetlistItemRecord carries one submitted song row.
type SetlistItemRecord struct {
	Title  string
	Artist string
	Note   string
}

// ListSectionIDsTx returns the persisted section identities for the gig.
func (r *SetlistRepo) ListSectionIDsTx(ctx context.Context, tx *sql.Tx, gigID uint64) ([]uint64, error) {
	return queryIDsTx(ctx, tx, `SELECT id FROM setlist_sections WHERE gig_id = ?`, gigID)
}

// DeleteSectionsTx removes sections from the gig; their items cascade.
func (r *SetlistRepo) DeleteSectionsTx(ctx context.Context, tx *sql.Tx, gigID uint64, ids []uint64) error {
	return deleteByIDsTx(ctx, tx, "setlist_sections", gigID, ids)
}

// UpsertSectionTx inserts or updates one section at the given position
// and returns the section's identity.  Existing sections keep their
// stored id so they survive a save.
func (r *SetlistRepo) UpsertSectionTx(ctx context.Context, tx *sql.Tx, gigID uint64, sort int, rec SetlistSectionRecord) (uint64, error) {
	if rec.ID != nil {
		const q = `UPDATE setlist_sections SET title=?, sort_order=? WHERE id=? AND gig_id=?`
		if _, err := tx.ExecContext(ctx, q, rec.Title, sort, *rec.ID, gigID); err != nil {
			return 0, Classify(err)
		}
		return *rec.ID, nil
	}
	const q = `INSERT INTO setlist_sections (gig_id, title, sort_order) VALUES (?,?,?)`
	res, err := tx.ExecContext(ctx, q, gigID, rec.Title, sort)
	if err != nil {
		return 0, Classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ReplaceItemsTx deletes the section's songs and reinserts the
// submitted ones in order, in a single bulk statement.
func (r *SetlistRepo) ReplaceItemsTx(ctx context.Context, tx *sql.Tx, sectionID uint64, items []SetlistItemRecord) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM setlist_items WHERE section_id = ?`, sectionID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO setlist_items (section_id, title, artist, note, sort_order) VALUES `
	args := make([]interface{}, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, sectionID, it.Title, it.Artist, it.Note, i)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
