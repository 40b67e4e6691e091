package model

import "time"

// Band groups users who manage gigs together.  The band owner is the
// managing party for every gig attached to the band.
type Band struct {
	ID        uint64    `json:"id"`         // bands.id
	Name      string    `json:"name"`       // bands.name
	OwnerID   uint64    `json:"owner_id"`   // bands.owner_id
	CreatedAt time.Time `json:"created_at"` // bands.created_at
	UpdatedAt time.Time `json:"updated_at"` // bands.updated_at
}

// BandMember links a user to a band with a free-form role label such as
// "Drums" or "Manager".  Membership grants read access to the band's
// gigs; write access stays with the band owner.
type BandMember struct {
	BandID    uint64    `json:"band_id"`    // band_members.band_id
	UserID    uint64    `json:"user_id"`    // band_members.user_id
	Role      string    `json:"role"`       // band_members.role
	CreatedAt time.Time `json:"created_at"` // band_members.created_at
}
