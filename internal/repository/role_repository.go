package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mwaldr/gigpack-server/internal/model"
)

// RoleRepo provides access to gig_roles: lineup reconciliation inside
// the save transaction, plus the invitation and payment operations that
// run outside of it.  Notifications are keyed on (user, gig, type)
// rather than on the role row, so removing a role does not touch them;
// the save transaction clears stale invites itself.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// GigRoleRecord carries one submitted lineup entry.  ID is nil for new
// entries; new entries are deduplicated against existing rows before
// insertion (by linked user id, else by role+name).
type GigRoleRecord struct {
	ID        *uint64
	Role      string
	Name      string
	UserID    *uint64
	ContactID *uint64
	Notes     string
	FeeCents  uint32
}

// ListTx returns all persisted roles of the gig inside the transaction.
// The full rows (not just ids) are needed for the dedup matching of
// submitted entries without an identity.
func (r *RoleRepo) ListTx(ctx context.Context, tx *sql.Tx, gigID uint64) ([]model.GigRole, error) {
	const q = `SELECT id, gig_id, role, name, user_id, contact_id, notes, sort_order,
	                  invitation_status, fee_cents, payment_status, created_at, updated_at
	           FROM gig_roles WHERE gig_id = ? ORDER BY sort_order`
	rows, err := tx.QueryContext(ctx, q, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []model.GigRole
	for rows.Next() {
		role, err := scanGigRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// DeleteTx removes roles from the gig.  Invite notifications of the
// removed collaborators are cleared separately by the caller.
func (r *RoleRepo) DeleteTx(ctx context.Context, tx *sql.Tx, gigID uint64, ids []uint64) error {
	return deleteByIDsTx(ctx, tx, "gig_roles", gigID, ids)
}

// UpdateTx overwrites the mutable fields of an identified role.  The
// linked user and invitation status are not touched here: relinking a
// person is expressed as delete + insert by the client.
func (r *RoleRepo) UpdateTx(ctx context.Context, tx *sql.Tx, gigID uint64, sort int, rec GigRoleRecord) error {
	const q = `UPDATE gig_roles SET role=?, name=?, contact_id=?, notes=?, sort_order=?, fee_cents=?
	           WHERE id=? AND gig_id=?`
	_, err := tx.ExecContext(ctx, q, rec.Role, rec.Name, rec.ContactID, rec.Notes, sort, rec.FeeCents, *rec.ID, gigID)
	return Classify(err)
}

// InsertTx creates a new role row with the given invitation status and
// returns its identity.
func (r *RoleRepo) InsertTx(ctx context.Context, tx *sql.Tx, gigID uint64, sort int, rec GigRoleRecord, invitationStatus string) (uint64, error) {
	const q = `INSERT INTO gig_roles (gig_id, role, name, user_id, contact_id, notes, sort_order, invitation_status, fee_cents)
	           VALUES (?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q, gigID, rec.Role, rec.Name, rec.UserID, rec.ContactID, rec.Notes, sort, invitationStatus, rec.FeeCents)
	if err != nil {
		return 0, Classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single role row.
func (r *RoleRepo) GetByID(ctx context.Context, roleID uint64) (model.GigRole, error) {
	const q = `SELECT id, gig_id, role, name, user_id, contact_id, notes, sort_order,
	                  invitation_status, fee_cents, payment_status, created_at, updated_at
	           FROM gig_roles WHERE id = ?`
	return scanGigRole(r.DB.QueryRowContext(ctx, q, roleID))
}

// InvitationDetail is a pending or answered invitation from the linked
// user's point of view, joined with the gig it belongs to.
type InvitationDetail struct {
	RoleID           uint64 `json:"role_id"`
	GigID            uint64 `json:"gig_id"`
	GigTitle         string `json:"gig_title"`
	GigDate          string `json:"gig_date"`
	VenueName        string `json:"venue_name"`
	Role             string `json:"role"`
	InvitationStatus string `json:"invitation_status"`
}

// ListInvitationsForUser returns all roles linking the user, newest gig
// first.  The caller filters by status if needed.
func (r *RoleRepo) ListInvitationsForUser(ctx context.Context, userID uint64) ([]InvitationDetail, error) {
	const q = `SELECT gr.id, g.id, g.title, g.gig_date, g.venue_name, gr.role, gr.invitation_status
	           FROM gig_roles gr
	           JOIN gigs g ON g.id = gr.gig_id
	           WHERE gr.user_id = ?
	           ORDER BY g.gig_date DESC, gr.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]InvitationDetail, 0)
	for rows.Next() {
		var d InvitationDetail
		var gigDate time.Time
		if err := rows.Scan(&d.RoleID, &d.GigID, &d.GigTitle, &gigDate, &d.VenueName, &d.Role, &d.InvitationStatus); err != nil {
			return nil, err
		}
		d.GigDate = gigDate.UTC().Format("2006-01-02")
		items = append(items, d)
	}
	return items, rows.Err()
}

// AnswerInvitation records the linked user's accept/decline answer.  It
// returns sql.ErrNoRows when the role does not exist and ErrForbidden
// when the role is not linked to the user.
func (r *RoleRepo) AnswerInvitation(ctx context.Context, roleID, userID uint64, status string) error {
	var linked sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM gig_roles WHERE id = ?`, roleID).Scan(&linked)
	if err != nil {
		return err
	}
	if !linked.Valid || uint64(linked.Int64) != userID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE gig_roles SET invitation_status=? WHERE id=?`, status, roleID)
	return err
}

// UpdatePayment sets the fee and payment status of a role.
func (r *RoleRepo) UpdatePayment(ctx context.Context, roleID uint64, feeCents uint32, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE gig_roles SET fee_cents=?, payment_status=? WHERE id=?`,
		feeCents, status, roleID)
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

// PaymentSummary aggregates the fee state of a gig's lineup.
type PaymentSummary struct {
	Roles      []model.GigRole `json:"roles"`
	TotalCents uint64          `json:"total_cents"`
	PaidCents  uint64          `json:"paid_cents"`
}

// PaymentsByGig returns all roles of the gig with their fee fields and
// the paid/total aggregate.
func (r *RoleRepo) PaymentsByGig(ctx context.Context, gigID uint64) (*PaymentSummary, error) {
	const q = `SELECT id, gig_id, role, name, user_id, contact_id, notes, sort_order,
	                  invitation_status, fee_cents, payment_status, created_at, updated_at
	           FROM gig_roles WHERE gig_id = ? ORDER BY sort_order`
	rows, err := r.DB.QueryContext(ctx, q, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sum := &PaymentSummary{Roles: []model.GigRole{}}
	for rows.Next() {
		role, err := scanGigRole(rows)
		if err != nil {
			return nil, err
		}
		sum.Roles = append(sum.Roles, role)
		sum.TotalCents += uint64(role.FeeCents)
		if role.PaymentStatus == model.PayPaid {
			sum.PaidCents += uint64(role.FeeCents)
		}
	}
	return sum, rows.Err()
}

func scanGigRole(s scanner) (model.GigRole, error) {
	var (
		role      model.GigRole
		userID    sql.NullInt64
		contactID sql.NullInt64
	)
	err := s.Scan(&role.ID, &role.GigID, &role.Role, &role.Name, &userID, &contactID,
		&role.Notes, &role.SortOrder, &role.InvitationStatus, &role.FeeCents,
		&role.PaymentStatus, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return model.GigRole{}, err
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		role.UserID = &v
	}
	if contactID.Valid {
		v := uint64(contactID.Int64)
		role.ContactID = &v
	}
	return role, nil
}
