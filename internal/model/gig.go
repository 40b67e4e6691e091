package model

import "time"

// Gig represents a single booked performance, the root aggregate of the
// data model.  Exactly one of OwnerID or BandID determines the managing
// party: gigs created inside a band belong to the band (and are managed
// by the band's owner), personal gigs carry a direct owner.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – display title of the gig.
//  GigDate        – calendar date of the performance.
//  BandID         – owning band (nullable for personal gigs).
//  OwnerID        – direct owner (nullable for band gigs).
//  VenueName      – venue display name.
//  VenueAddress   – free-text venue address.
//  AccentColor    – branding color for the share page.
//  HeaderImageURL – branding image for the share page.
//  Theme          – share page theme name.
//  Notes          – public notes shown on the share page.
//  PrivateNotes   – notes visible to the managing party only.
//  Status         – lifecycle status (DRAFT, CONFIRMED, TENTATIVE, CANCELLED).
type Gig struct {
	ID             uint64    `json:"id"`               // gigs.id
	Title          string    `json:"title"`            // gigs.title
	GigDate        string    `json:"gig_date"`         // gigs.gig_date (YYYY-MM-DD)
	BandID         *uint64   `json:"band_id,omitempty"` // gigs.band_id (nullable)
	OwnerID        *uint64   `json:"owner_id,omitempty"` // gigs.owner_id (nullable)
	VenueName      string    `json:"venue_name"`       // gigs.venue_name
	VenueAddress   string    `json:"venue_address"`    // gigs.venue_address
	AccentColor    string    `json:"accent_color"`     // gigs.accent_color
	HeaderImageURL string    `json:"header_image_url"` // gigs.header_image_url
	Theme          string    `json:"theme"`            // gigs.theme
	Notes          string    `json:"notes"`            // gigs.notes
	PrivateNotes   string    `json:"private_notes,omitempty"` // gigs.private_notes
	Status         string    `json:"status"`           // gigs.status
	CreatedAt      time.Time `json:"created_at"`       // gigs.created_at
	UpdatedAt      time.Time `json:"updated_at"`       // gigs.updated_at
}

// ScheduleItem is one line of the gig's day-of schedule.  Sort order is
// dense and zero-based per gig.
type ScheduleItem struct {
	ID        uint64 `json:"id"`         // gig_schedule.id
	GigID     uint64 `json:"-"`          // gig_schedule.gig_id
	At        string `json:"at"`         // gig_schedule.at_label (e.g. "18:30")
	Label     string `json:"label"`      // gig_schedule.label
	SortOrder int    `json:"sort_order"` // gig_schedule.sort_order
}

// MaterialItem is a link or file attached to the gig pack (chart, stage
// plot, backing track).  Kind is a free-form category string.
type MaterialItem struct {
	ID        uint64 `json:"id"`         // gig_materials.id
	GigID     uint64 `json:"-"`          // gig_materials.gig_id
	Label     string `json:"label"`      // gig_materials.label
	URL       string `json:"url"`        // gig_materials.url
	Kind      string `json:"kind"`       // gig_materials.kind
	SortOrder int    `json:"sort_order"` // gig_materials.sort_order
}

// PackingItem is one entry of the gig's packing checklist.
type PackingItem struct {
	ID        uint64 `json:"id"`         // gig_packing.id
	GigID     uint64 `json:"-"`          // gig_packing.gig_id
	Label     string `json:"label"`      // gig_packing.label
	SortOrder int    `json:"sort_order"` // gig_packing.sort_order
}

// SetlistSection groups setlist items under a titled block (e.g. "Set 1",
// "Encore").  Items belong to exactly one section and are replaced as a
// unit when the section content changes.
type SetlistSection struct {
	ID        uint64        `json:"id"`         // setlist_sections.id
	GigID     uint64        `json:"-"`          // setlist_sections.gig_id
	Title     string        `json:"title"`      // setlist_sections.title
	SortOrder int           `json:"sort_order"` // setlist_sections.sort_order
	Items     []SetlistItem `json:"items"`      // child rows, ordered
}

// SetlistItem is a single song inside a setlist section.
type SetlistItem struct {
	ID        uint64 `json:"id"`             // setlist_items.id
	SectionID uint64 `json:"-"`              // setlist_items.section_id
	Title     string `json:"title"`          // setlist_items.title
	Artist    string `json:"artist,omitempty"` // setlist_items.artist
	Note      string `json:"note,omitempty"` // setlist_items.note
	SortOrder int    `json:"sort_order"`     // setlist_items.sort_order
}

// GigPack bundles a gig header with all five child collections.  It is
// what the save endpoint reconciles and what the detail and public share
// endpoints return.
type GigPack struct {
	Gig       Gig              `json:"gig"`
	Schedule  []ScheduleItem   `json:"schedule"`
	Materials []MaterialItem   `json:"materials"`
	Packing   []PackingItem    `json:"packing"`
	Setlist   []SetlistSection `json:"setlist"`
	Roles     []GigRole        `json:"roles"`
}
