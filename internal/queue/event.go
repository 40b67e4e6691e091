// Package queue defines message payloads exchanged over the message broker.
package queue

// InviteNotificationEvent is published when saving a gig pack links a
// registered user to a role for the first time.  It contains enough
// information for downstream consumers to log or notify without querying
// the primary database.
type InviteNotificationEvent struct {
	RoleID    uint64 `json:"role_id"`
	GigID     uint64 `json:"gig_id"`
	GigTitle  string `json:"gig_title"`
	GigDate   string `json:"gig_date"`
	UserID    uint64 `json:"user_id"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	InvitedBy uint64 `json:"invited_by"`
	InvitedAt string `json:"invited_at"`
}
