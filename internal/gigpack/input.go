package gigpack

import (
	"strconv"
	"strings"
	"time"
)

// Gig lifecycle statuses accepted on input.
var validStatuses = map[string]bool{
	"DRAFT":     true,
	"CONFIRMED": true,
	"TENTATIVE": true,
	"CANCELLED": true,
}

// SaveRequest is the typed form of the seven-parameter save call.  The
// request is validated field by field before the transaction starts,
// so malformed submissions are rejected with a 400 and a field map
// instead of surfacing as SQL errors deep inside a stage.
type SaveRequest struct {
	IsEditing  bool                  `json:"is_editing"`
	GigID      *uint64               `json:"gig_id,omitempty"`
	Gig        GigInput              `json:"gig"`
	Schedule   []ScheduleItemInput   `json:"schedule"`
	Materials  []MaterialItemInput   `json:"materials"`
	Packing    []PackingItemInput    `json:"packing"`
	Setlist    []SetlistSectionInput `json:"setlist"`
	Roles      []RoleInput           `json:"roles"`
	ShareToken string                `json:"share_token,omitempty"`
}

// GigInput carries the submitted header fields.
type GigInput struct {
	Title          string  `json:"title"`
	GigDate        string  `json:"gig_date"` // YYYY-MM-DD
	BandID         *uint64 `json:"band_id,omitempty"`
	VenueName      string  `json:"venue_name"`
	VenueAddress   string  `json:"venue_address"`
	AccentColor    string  `json:"accent_color"`
	HeaderImageURL string  `json:"header_image_url"`
	Theme          string  `json:"theme"`
	Notes          string  `json:"notes"`
	PrivateNotes   string  `json:"private_notes"`
	Status         string  `json:"status"`
}

// ScheduleItemInput is one submitted schedule line.  ID is present for
// items that already have a persisted row.
type ScheduleItemInput struct {
	ID    *uint64 `json:"id,omitempty"`
	At    string  `json:"at"`
	Label string  `json:"label"`
}

type MaterialItemInput struct {
	ID    *uint64 `json:"id,omitempty"`
	Label string  `json:"label"`
	URL   string  `json:"url"`
	Kind  string  `json:"kind"`
}

type PackingItemInput struct {
	ID    *uint64 `json:"id,omitempty"`
	Label string  `json:"label"`
}

type SetlistSectionInput struct {
	ID    *uint64            `json:"id,omitempty"`
	Title string             `json:"title"`
	Items []SetlistItemInput `json:"items"`
}

type SetlistItemInput struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Note   string `json:"note"`
}

// RoleInput is one submitted lineup entry.  UserID links an application
// account, ContactID an entry of the caller's contact book; both are
// optional.
type RoleInput struct {
	ID        *uint64 `json:"id,omitempty"`
	Role      string  `json:"role"`
	Name      string  `json:"name"`
	UserID    *uint64 `json:"user_id,omitempty"`
	ContactID *uint64 `json:"contact_id,omitempty"`
	Notes     string  `json:"notes"`
	FeeCents  uint32  `json:"fee_cents"`
}

// Normalize trims free-text fields and upper-cases the status.  It runs
// before Validate so that the validation and the role dedup matching
// both see canonical values.
func (r *SaveRequest) Normalize() {
	r.Gig.Title = strings.TrimSpace(r.Gig.Title)
	r.Gig.GigDate = strings.TrimSpace(r.Gig.GigDate)
	r.Gig.VenueName = strings.TrimSpace(r.Gig.VenueName)
	r.Gig.Status = strings.ToUpper(strings.TrimSpace(r.Gig.Status))
	if r.Gig.Status == "" {
		r.Gig.Status = "DRAFT"
	}
	r.ShareToken = strings.TrimSpace(r.ShareToken)
	for i := range r.Schedule {
		r.Schedule[i].At = strings.TrimSpace(r.Schedule[i].At)
		r.Schedule[i].Label = strings.TrimSpace(r.Schedule[i].Label)
	}
	for i := range r.Materials {
		r.Materials[i].Label = strings.TrimSpace(r.Materials[i].Label)
		r.Materials[i].URL = strings.TrimSpace(r.Materials[i].URL)
	}
	for i := range r.Packing {
		r.Packing[i].Label = strings.TrimSpace(r.Packing[i].Label)
	}
	for i := range r.Setlist {
		r.Setlist[i].Title = strings.TrimSpace(r.Setlist[i].Title)
		for j := range r.Setlist[i].Items {
			r.Setlist[i].Items[j].Title = strings.TrimSpace(r.Setlist[i].Items[j].Title)
		}
	}
	for i := range r.Roles {
		r.Roles[i].Role = strings.TrimSpace(r.Roles[i].Role)
		r.Roles[i].Name = strings.TrimSpace(r.Roles[i].Name)
	}
}

// Validate checks the submission field by field and returns a map of
// field path to problem.  An empty map means the request is valid.
func (r *SaveRequest) Validate() map[string]string {
	problems := map[string]string{}
	if r.IsEditing && (r.GigID == nil || *r.GigID == 0) {
		problems["gig_id"] = "required when is_editing is true"
	}
	if !r.IsEditing && r.GigID != nil {
		problems["gig_id"] = "must be omitted when creating"
	}
	if r.Gig.Title == "" {
		problems["gig.title"] = "required"
	} else if len(r.Gig.Title) > 200 {
		problems["gig.title"] = "must be at most 200 characters"
	}
	if r.Gig.GigDate == "" {
		problems["gig.gig_date"] = "required"
	} else if _, err := time.Parse("2006-01-02", r.Gig.GigDate); err != nil {
		problems["gig.gig_date"] = "must be YYYY-MM-DD"
	}
	if !validStatuses[r.Gig.Status] {
		problems["gig.status"] = "must be one of DRAFT, CONFIRMED, TENTATIVE, CANCELLED"
	}
	for i, it := range r.Schedule {
		if it.Label == "" {
			problems[field("schedule", i, "label")] = "required"
		}
	}
	for i, it := range r.Materials {
		if it.Label == "" {
			problems[field("materials", i, "label")] = "required"
		}
	}
	for i, it := range r.Packing {
		if it.Label == "" {
			problems[field("packing", i, "label")] = "required"
		}
	}
	for i, sec := range r.Setlist {
		if sec.Title == "" {
			problems[field("setlist", i, "title")] = "required"
		}
		for j, it := range sec.Items {
			if it.Title == "" {
				problems[field("setlist", i, "items")+"["+strconv.Itoa(j)+"].title"] = "required"
			}
		}
	}
	for i, role := range r.Roles {
		if role.Role == "" {
			problems[field("roles", i, "role")] = "required"
		}
		if role.Name == "" {
			problems[field("roles", i, "name")] = "required"
		}
	}
	return problems
}

func field(collection string, i int, name string) string {
	return collection + "[" + strconv.Itoa(i) + "]." + name
}
