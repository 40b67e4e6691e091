package model

import "time"

// Invitation status values for a gig role.
const (
	InvitePending  = "PENDING"  // no linked account, or not yet notified
	InviteInvited  = "INVITED"  // linked account notified, awaiting answer
	InviteAccepted = "ACCEPTED" // linked account accepted the slot
	InviteDeclined = "DECLINED" // linked account declined the slot
)

// Payment status values for a gig role.
const (
	PayUnpaid  = "UNPAID"
	PayPartial = "PARTIAL"
	PayPaid    = "PAID"
)

// GigRole is a lineup slot on a gig: a role name (e.g. "Bass") filled by
// a named person.  The person may optionally be linked to an application
// account (UserID) or to an entry in the caller's contact book
// (ContactID).  Role identity is the reconciliation key during a gig
// pack save; external references such as notifications point at it, so
// unchanged roles must keep their stored ID across saves.
type GigRole struct {
	ID               uint64    `json:"id"`                  // gig_roles.id
	GigID            uint64    `json:"gig_id"`              // gig_roles.gig_id
	Role             string    `json:"role"`                // gig_roles.role
	Name             string    `json:"name"`                // gig_roles.name
	UserID           *uint64   `json:"user_id,omitempty"`   // gig_roles.user_id (nullable)
	ContactID        *uint64   `json:"contact_id,omitempty"` // gig_roles.contact_id (nullable)
	Notes            string    `json:"notes,omitempty"`     // gig_roles.notes
	SortOrder        int       `json:"sort_order"`          // gig_roles.sort_order
	InvitationStatus string    `json:"invitation_status"`   // gig_roles.invitation_status
	FeeCents         uint32    `json:"fee_cents"`           // gig_roles.fee_cents
	PaymentStatus    string    `json:"payment_status"`      // gig_roles.payment_status
	CreatedAt        time.Time `json:"created_at"`          // gig_roles.created_at
	UpdatedAt        time.Time `json:"updated_at"`          // gig_roles.updated_at
}
