package repository

import (
	"context"
	"database/sql"

	"github.com/mwaldr/gigpack-server/internal/model"
)

// NotificationRepo persists fire-once notification rows.  The unique
// key on (user_id, gig_id, type) makes the invite insert idempotent:
// resaving a pack with the same collaborator is a no-op.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// InsertOnceTx writes a notification inside the save transaction.  A
// conflict on (user, gig, type) leaves the existing row untouched and
// reports inserted=false, so callers can skip re-publishing.
func (r *NotificationRepo) InsertOnceTx(ctx context.Context, tx *sql.Tx, userID, gigID uint64, typ, payload string) (bool, error) {
	const q = `INSERT INTO notifications (user_id, gig_id, type, payload)
	           VALUES (?,?,?,?)
	           ON DUPLICATE KEY UPDATE id = id`
	res, err := tx.ExecContext(ctx, q, userID, gigID, typ, payload)
	if err != nil {
		return false, Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// MySQL reports 1 affected row for a fresh insert, 0 for the no-op.
	return n == 1, nil
}

// DeleteForUserGigTx removes the user's notification of the given type
// for a gig inside the save transaction.  Notifications carry no
// reference to the role row, so the save clears the invite explicitly
// when a collaborator is removed; without this a later re-invite of the
// same account would hit the duplicate key and never fire again.
func (r *NotificationRepo) DeleteForUserGigTx(ctx context.Context, tx *sql.Tx, userID, gigID uint64, typ string) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id=? AND gig_id=? AND type=?`,
		userID, gigID, typ)
	return err
}

// ListForUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	const q = `SELECT id, user_id, gig_id, type, payload, read_at, created_at
	           FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &n.GigID, &n.Type, &n.Payload, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			n.ReadAt = &t
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead stamps a notification as read.  It returns sql.ErrNoRows
// when the notification does not exist or belongs to another user.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET read_at=NOW() WHERE id=? AND user_id=? AND read_at IS NULL`,
		notificationID, userID)
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
