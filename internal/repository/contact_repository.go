package repository

import (
	"context"
	"database/sql"

	"github.com/mwaldr/gigpack-server/internal/model"
)

// ContactRepo provides CRUD operations for a user's private contact
// book.  All queries are scoped by the owning user id, so a contact is
// never visible to anyone else.
type ContactRepo struct{ DB *sql.DB }

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

// Create inserts a contact for the user and returns its ID.
func (r *ContactRepo) Create(ctx context.Context, userID uint64, c model.Contact) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO contacts (user_id, name, email, phone, notes) VALUES (?,?,?,?,?)`,
		userID, c.Name, c.Email, c.Phone, c.Notes)
	if err != nil {
		return 0, Classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one contact owned by the user.
func (r *ContactRepo) GetByID(ctx context.Context, contactID, userID uint64) (model.Contact, error) {
	var c model.Contact
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, name, email, phone, notes, created_at, updated_at
		 FROM contacts WHERE id=? AND user_id=?`, contactID, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListForUser returns the user's contacts ordered by name.
func (r *ContactRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Contact, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, name, email, phone, notes, created_at, updated_at
		 FROM contacts WHERE user_id=? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	contacts := make([]model.Contact, 0)
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// Update overwrites the contact's fields.  It returns sql.ErrNoRows
// when no contact with that id belongs to the user.
func (r *ContactRepo) Update(ctx context.Context, contactID, userID uint64, c model.Contact) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE contacts SET name=?, email=?, phone=?, notes=? WHERE id=? AND user_id=?`,
		c.Name, c.Email, c.Phone, c.Notes, contactID, userID)
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

// Delete removes a contact.  Roles referencing it keep their copied
// display name; the contact_id reference is set NULL by the FK.
func (r *ContactRepo) Delete(ctx context.Context, contactID, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM contacts WHERE id=? AND user_id=?`, contactID, userID)
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
