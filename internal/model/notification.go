package model

import "time"

// NotificationInviteReceived is written when a linked account is added
// to a gig's lineup.  The (user, gig, type) unique key guarantees at
// most one such row regardless of how many times the pack is resaved.
const NotificationInviteReceived = "invitation_received"

// Notification is a fire-once side effect record produced inside the gig
// pack save transaction and consumed asynchronously by the delivery
// layer.  Payload is a free-form JSON document describing the event.
type Notification struct {
	ID        uint64     `json:"id"`                // notifications.id
	UserID    uint64     `json:"user_id"`           // notifications.user_id
	GigID     uint64     `json:"gig_id"`            // notifications.gig_id
	Type      string     `json:"type"`              // notifications.type
	Payload   string     `json:"payload"`           // notifications.payload (JSON)
	ReadAt    *time.Time `json:"read_at,omitempty"` // notifications.read_at (nullable)
	CreatedAt time.Time  `json:"created_at"`        // notifications.created_at
}
