package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mwaldr/gigpack-server/internal/model"
)

// GigRepo provides CRUD operations for gig header rows and assembles
// full gig packs for display.  Child collections (schedule, materials,
// packing, setlist, roles) are owned exclusively by the gig aggregate
// and are only mutated through the save transaction; deleting a gig
// cascades to all of them via foreign keys.
type GigRepo struct{ DB *sql.DB }

// NewGigRepo returns a new GigRepo bound to the given database.
func NewGigRepo(db *sql.DB) *GigRepo { return &GigRepo{DB: db} }

// GigRecord mirrors the writable columns of the gigs table.  It is used
// by the save transaction when inserting or updating the header row.
type GigRecord struct {
	ID             uint64
	Title          string
	GigDate        string // YYYY-MM-DD
	BandID         *uint64
	OwnerID        *uint64
	VenueName      string
	VenueAddress   string
	AccentColor    string
	HeaderImageURL string
	Theme          string
	Notes          string
	PrivateNotes   string
	Status         string
}

const gigColumns = `title, gig_date, band_id, owner_id, venue_name, venue_address,
	accent_color, header_image_url, theme, notes, private_notes, status`

// InsertTx creates a new gig row within an existing transaction and
// populates the generated ID on the record.  Foreign-key violations
// (e.g. an unknown band id) are classified to ErrInvalidReference.
func (r *GigRepo) InsertTx(ctx context.Context, tx *sql.Tx, rec *GigRecord) error {
	const q = `INSERT INTO gigs (` + gigColumns + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		rec.Title, rec.GigDate, rec.BandID, rec.OwnerID, rec.VenueName, rec.VenueAddress,
		rec.AccentColor, rec.HeaderImageURL, rec.Theme, rec.Notes, rec.PrivateNotes, rec.Status)
	if err != nil {
		return Classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// LockForSaveTx acquires a row lock on the gig inside the save
// transaction and verifies that the caller is the managing party (the
// direct owner, or the owner of the gig's band).  The lock serializes
// concurrent saves of the same gig: a second save blocks here until the
// first commits or rolls back, so diff computations never interleave.
// Saves against different gigs do not contend.  sql.ErrNoRows is
// returned when the gig does not exist, ErrForbidden when the caller
// does not manage it.
func (r *GigRepo) LockForSaveTx(ctx context.Context, tx *sql.Tx, gigID, callerID uint64) error {
	const q = `SELECT g.owner_id, b.owner_id
	           FROM gigs g
	           LEFT JOIN bands b ON b.id = g.band_id
	           WHERE g.id = ?
	           FOR UPDATE`
	var ownerID, bandOwnerID sql.NullInt64
	if err := tx.QueryRowContext(ctx, q, gigID).Scan(&ownerID, &bandOwnerID); err != nil {
		return err
	}
	if ownerID.Valid && uint64(ownerID.Int64) == callerID {
		return nil
	}
	if bandOwnerID.Valid && uint64(bandOwnerID.Int64) == callerID {
		return nil
	}
	return ErrForbidden
}

// UpdateHeaderTx overwrites the gig header with the submitted values.
// There is no optimistic-concurrency check: the last save wins.
func (r *GigRepo) UpdateHeaderTx(ctx context.Context, tx *sql.Tx, rec *GigRecord) error {
	const q = `UPDATE gigs SET title=?, gig_date=?, band_id=?, owner_id=?, venue_name=?, venue_address=?,
	           accent_color=?, header_image_url=?, theme=?, notes=?, private_notes=?, status=?
	           WHERE id=?`
	_, err := tx.ExecContext(ctx, q,
		rec.Title, rec.GigDate, rec.BandID, rec.OwnerID, rec.VenueName, rec.VenueAddress,
		rec.AccentColor, rec.HeaderImageURL, rec.Theme, rec.Notes, rec.PrivateNotes, rec.Status,
		rec.ID)
	return Classify(err)
}

// CanManage verifies outside of a transaction that the user is the
// managing party of the gig.  It returns sql.ErrNoRows when the gig
// does not exist and ErrForbidden when the user does not manage it.
func (r *GigRepo) CanManage(ctx context.Context, gigID, userID uint64) error {
	const q = `SELECT g.owner_id, b.owner_id
	           FROM gigs g
	           LEFT JOIN bands b ON b.id = g.band_id
	           WHERE g.id = ?`
	var ownerID, bandOwnerID sql.NullInt64
	if err := r.DB.QueryRowContext(ctx, q, gigID).Scan(&ownerID, &bandOwnerID); err != nil {
		return err
	}
	if ownerID.Valid && uint64(ownerID.Int64) == userID {
		return nil
	}
	if bandOwnerID.Valid && uint64(bandOwnerID.Int64) == userID {
		return nil
	}
	return ErrForbidden
}

// CanView reports whether the user may read the gig: managing party,
// band member, or a person linked to one of the gig's roles.
func (r *GigRepo) CanView(ctx context.Context, gigID, userID uint64) error {
	if err := r.CanManage(ctx, gigID, userID); err == nil {
		return nil
	} else if err == sql.ErrNoRows {
		return err
	}
	const q = `SELECT EXISTS(
	             SELECT 1 FROM gigs g
	             JOIN band_members m ON m.band_id = g.band_id
	             WHERE g.id = ? AND m.user_id = ?
	           ) OR EXISTS(
	             SELECT 1 FROM gig_roles gr WHERE gr.gig_id = ? AND gr.user_id = ?
	           )`
	var ok bool
	if err := r.DB.QueryRowContext(ctx, q, gigID, userID, gigID, userID).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// ListForUser returns gig headers visible to the user: directly owned,
// owned through a band, reachable via band membership, or linked to the
// user through a role.  Ordered by gig date descending.
func (r *GigRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Gig, error) {
	const q = `SELECT DISTINCT g.id, g.title, g.gig_date, g.band_id, g.owner_id,
	                  g.venue_name, g.venue_address, g.accent_color, g.header_image_url,
	                  g.theme, g.notes, g.private_notes, g.status, g.created_at, g.updated_at
	           FROM gigs g
	           LEFT JOIN bands b ON b.id = g.band_id
	           LEFT JOIN band_members m ON m.band_id = g.band_id
	           LEFT JOIN gig_roles gr ON gr.gig_id = g.id
	           WHERE g.owner_id = ? OR b.owner_id = ? OR m.user_id = ? OR gr.user_id = ?
	           ORDER BY g.gig_date DESC, g.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	gigs := make([]model.Gig, 0)
	for rows.Next() {
		g, err := scanGig(rows)
		if err != nil {
			return nil, err
		}
		gigs = append(gigs, g)
	}
	return gigs, rows.Err()
}

// GetHeader returns a single gig header row.
func (r *GigRepo) GetHeader(ctx context.Context, gigID uint64) (model.Gig, error) {
	const q = `SELECT id, title, gig_date, band_id, owner_id, venue_name, venue_address,
	                  accent_color, header_image_url, theme, notes, private_notes, status,
	                  created_at, updated_at
	           FROM gigs WHERE id = ?`
	return scanGig(r.DB.QueryRowContext(ctx, q, gigID))
}

// Delete removes a gig.  Schedule, materials, packing, setlist, roles,
// notifications and share tokens cascade via foreign keys.
func (r *GigRepo) Delete(ctx context.Context, gigID uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM gigs WHERE id = ?`, gigID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanGig.
type scanner interface{ Scan(dest ...interface{}) error }

func scanGig(s scanner) (model.Gig, error) {
	var (
		g       model.Gig
		gigDate time.Time
		bandID  sql.NullInt64
		ownerID sql.NullInt64
	)
	err := s.Scan(&g.ID, &g.Title, &gigDate, &bandID, &ownerID,
		&g.VenueName, &g.VenueAddress, &g.AccentColor, &g.HeaderImageURL,
		&g.Theme, &g.Notes, &g.PrivateNotes, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return model.Gig{}, err
	}
	g.GigDate = gigDate.UTC().Format("2006-01-02")
	if bandID.Valid {
		v := uint64(bandID.Int64)
		g.BandID = &v
	}
	if ownerID.Valid {
		v := uint64(ownerID.Int64)
		g.OwnerID = &v
	}
	return g, nil
}

// LoadPack assembles the full gig pack: header plus all five child
// collections, each ordered by its stored sort order.  It is used by
// the authenticated detail endpoint and the public share page.
func (r *GigRepo) LoadPack(ctx context.Context, gigID uint64) (*model.GigPack, error) {
	g, err := r.GetHeader(ctx, gigID)
	if err != nil {
		return nil, err
	}
	pack := &model.GigPack{
		Gig:       g,
		Schedule:  []model.ScheduleItem{},
		Materials: []model.MaterialItem{},
		Packing:   []model.PackingItem{},
		Setlist:   []model.SetlistSection{},
		Roles:     []model.GigRole{},
	}

	const schedQ = `SELECT id, gig_id, at_label, label, sort_order
	                FROM gig_schedule WHERE gig_id = ? ORDER BY sort_order`
	rows, err := r.DB.QueryContext(ctx, schedQ, gigID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var it model.ScheduleItem
		if err := rows.Scan(&it.ID, &it.GigID, &it.At, &it.Label, &it.SortOrder); err != nil {
			rows.Close()
			return nil, err
		}
		pack.Schedule = append(pack.Schedule, it)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	const matQ = `SELECT id, gig_id, label, url, kind, sort_order
	              FROM gig_materials WHERE gig_id = ? ORDER BY sort_order`
	rows, err = r.DB.QueryContext(ctx, matQ, gigID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var it model.MaterialItem
		if err := rows.Scan(&it.ID, &it.GigID, &it.Label, &it.URL, &it.Kind, &it.SortOrder); err != nil {
			rows.Close()
			return nil, err
		}
		pack.Materials = append(pack.Materials, it)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	const packQ = `SELECT id, gig_id, label, sort_order
	               FROM gig_packing WHERE gig_id = ? ORDER BY sort_order`
	rows, err = r.DB.QueryContext(ctx, packQ, gigID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var it model.PackingItem
		if err := rows.Scan(&it.ID, &it.GigID, &it.Label, &it.SortOrder); err != nil {
			rows.Close()
			return nil, err
		}
		pack.Packing = append(pack.Packing, it)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	// Sections first, then one query for all items grouped back by section.
	const secQ = `SELECT id, gig_id, title, sort_order
	              FROM setlist_sections WHERE gig_id = ? ORDER BY sort_order`
	rows, err = r.DB.QueryContext(ctx, secQ, gigID)
	if err != nil {
		return nil, err
	}
	index := make(map[uint64]int)
	for rows.Next() {
		var sec model.SetlistSection
		if err := rows.Scan(&sec.ID, &sec.GigID, &sec.Title, &sec.SortOrder); err != nil {
			rows.Close()
			return nil, err
		}
		sec.Items = []model.SetlistItem{}
		index[sec.ID] = len(pack.Setlist)
		pack.Setlist = append(pack.Setlist, sec)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	if len(pack.Setlist) > 0 {
		const itemQ = `SELECT i.id, i.section_id, i.title, i.artist, i.note, i.sort_order
		               FROM setlist_items i
		               JOIN setlist_sections s ON s.id = i.section_id
		               WHERE s.gig_id = ?
		               ORDER BY s.sort_order, i.sort_order`
		rows, err = r.DB.QueryContext(ctx, itemQ, gigID)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var it model.SetlistItem
			if err := rows.Scan(&it.ID, &it.SectionID, &it.Title, &it.Artist, &it.Note, &it.SortOrder); err != nil {
				rows.Close()
				return nil, err
			}
			if idx, ok := index[it.SectionID]; ok {
				pack.Setlist[idx].Items = append(pack.Setlist[idx].Items, it)
			}
		}
		if err := closeRows(rows); err != nil {
			return nil, err
		}
	}

	const roleQ = `SELECT id, gig_id, role, name, user_id, contact_id, notes, sort_order,
	                      invitation_status, fee_cents, payment_status, created_at, updated_at
	               FROM gig_roles WHERE gig_id = ? ORDER BY sort_order`
	rows, err = r.DB.QueryContext(ctx, roleQ, gigID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		role, err := scanGigRole(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		pack.Roles = append(pack.Roles, role)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return pack, nil
}

// closeRows drains the iteration error and closes the rows.
func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
