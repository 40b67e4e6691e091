package repository

import (
	"context"
	"database/sql"

	"github.com/mwaldr/gigpack-server/internal/model"
)

// BandRepo provides CRUD operations for bands and their members.  Only
// the band owner may mutate the band; members gain read access to the
// band's gigs.
type BandRepo struct{ DB *sql.DB }

func NewBandRepo(db *sql.DB) *BandRepo { return &BandRepo{DB: db} }

// Create inserts a band owned by the given user and returns its ID.
// The owner is also recorded as a member so that membership queries
// stay uniform.
func (r *BandRepo) Create(ctx context.Context, name string, ownerID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO bands (name, owner_id) VALUES (?,?)`, name, ownerID)
	if err != nil {
		return 0, Classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO band_members (band_id, user_id, role) VALUES (?,?,?)`,
		id, ownerID, "Owner")
	if err != nil {
		return 0, Classify(err)
	}
	return uint64(id), nil
}

// GetByID fetches a band row.
func (r *BandRepo) GetByID(ctx context.Context, bandID uint64) (model.Band, error) {
	var b model.Band
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at, updated_at FROM bands WHERE id=?`, bandID).
		Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// ListForUser returns all bands the user owns or is a member of.
func (r *BandRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Band, error) {
	const q = `SELECT DISTINCT b.id, b.name, b.owner_id, b.created_at, b.updated_at
	           FROM bands b
	           LEFT JOIN band_members m ON m.band_id = b.id
	           WHERE b.owner_id = ? OR m.user_id = ?
	           ORDER BY b.name`
	rows, err := r.DB.QueryContext(ctx, q, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bands := make([]model.Band, 0)
	for rows.Next() {
		var b model.Band
		if err := rows.Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bands = append(bands, b)
	}
	return bands, rows.Err()
}

// Rename updates the band name.  Only the owner may rename; it returns
// sql.ErrNoRows when the band does not exist and ErrForbidden when the
// caller is not the owner.
func (r *BandRepo) Rename(ctx context.Context, bandID, callerID uint64, name string) error {
	if err := r.requireOwner(ctx, bandID, callerID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, `UPDATE bands SET name=? WHERE id=?`, name, bandID)
	return err
}

// Delete removes a band.  Band gigs are detached rather than deleted:
// they fall back to the caller as direct owner so no gig data is lost.
func (r *BandRepo) Delete(ctx context.Context, bandID, callerID uint64) error {
	if err := r.requireOwner(ctx, bandID, callerID); err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx,
		`UPDATE gigs SET owner_id=?, band_id=NULL WHERE band_id=?`, callerID, bandID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, `DELETE FROM bands WHERE id=?`, bandID)
	return err
}

// AddMember links a user to the band with a role label.
func (r *BandRepo) AddMember(ctx context.Context, bandID, callerID, userID uint64, role string) error {
	if err := r.requireOwner(ctx, bandID, callerID); err != nil {
		return err
	}
	const q = `INSERT INTO band_members (band_id, user_id, role)
	           VALUES (?,?,?)
	           ON DUPLICATE KEY UPDATE role=VALUES(role)`
	_, err := r.DB.ExecContext(ctx, q, bandID, userID, role)
	return Classify(err)
}

// RemoveMember unlinks a user from the band.  The owner cannot be
// removed.
func (r *BandRepo) RemoveMember(ctx context.Context, bandID, callerID, userID uint64) error {
	if err := r.requireOwner(ctx, bandID, callerID); err != nil {
		return err
	}
	if userID == callerID {
		return ErrConflict
	}
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM band_members WHERE band_id=? AND user_id=?`, bandID, userID)
	return err
}

// Members returns the band's member list.
func (r *BandRepo) Members(ctx context.Context, bandID uint64) ([]model.BandMember, error) {
	const q = `SELECT band_id, user_id, role, created_at FROM band_members WHERE band_id=? ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, q, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]model.BandMember, 0)
	for rows.Next() {
		var m model.BandMember
		if err := rows.Scan(&m.BandID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *BandRepo) requireOwner(ctx context.Context, bandID, callerID uint64) error {
	var ownerID uint64
	if err := r.DB.QueryRowContext(ctx,
		`SELECT owner_id FROM bands WHERE id=?`, bandID).Scan(&ownerID); err != nil {
		return err
	}
	if ownerID != callerID {
		return ErrForbidden
	}
	return nil
}
