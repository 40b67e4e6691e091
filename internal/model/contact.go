package model

import "time"

// Contact is an entry in a user's private contact book.  Gig roles may
// reference a contact so that recurring collaborators without an account
// can be reused across gigs.
type Contact struct {
	ID        uint64    `json:"id"`              // contacts.id
	UserID    uint64    `json:"-"`               // contacts.user_id (owner)
	Name      string    `json:"name"`            // contacts.name
	Email     string    `json:"email,omitempty"` // contacts.email
	Phone     string    `json:"phone,omitempty"` // contacts.phone
	Notes     string    `json:"notes,omitempty"` // contacts.notes
	CreatedAt time.Time `json:"created_at"`      // contacts.created_at
	UpdatedAt time.Time `json:"updated_at"`      // contacts.updated_at
}
