package model

import "time"

// ShareToken maps a public slug to a gig.  At most one active token
// exists per gig; the token string itself is globally unique.  The slug
// is not security-sensitive beyond being unguessable.
type ShareToken struct {
	ID        uint64    `json:"id"`         // share_tokens.id
	GigID     uint64    `json:"gig_id"`     // share_tokens.gig_id
	Token     string    `json:"token"`      // share_tokens.token
	IsActive  bool      `json:"is_active"`  // share_tokens.is_active
	CreatedAt time.Time `json:"created_at"` // share_tokens.created_at
	UpdatedAt time.Time `json:"updated_at"` // share_tokens.updated_at
}
