package gigpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() SaveRequest {
	return SaveRequest{
		Gig: GigInput{
			Title:   "Festival warm-up",
			GigDate: "2026-09-12",
			Status:  "CONFIRMED",
		},
	}
}

func TestNormalizeTrimsAndDefaults(t *testing.T) {
	req := SaveRequest{
		Gig: GigInput{
			Title:     "  Club night  ",
			GigDate:   " 2026-10-01 ",
			VenueName: " The Cellar ",
			Status:    " draft ",
		},
		Schedule: []ScheduleItemInput{{At: " 19:00 ", Label: " load-in "}},
		Roles:    []RoleInput{{Role: " Drums ", Name: " Sam "}},
	}
	req.Normalize()

	assert.Equal(t, "Club night", req.Gig.Title)
	assert.Equal(t, "2026-10-01", req.Gig.GigDate)
	assert.Equal(t, "The Cellar", req.Gig.VenueName)
	assert.Equal(t, "DRAFT", req.Gig.Status)
	assert.Equal(t, "19:00", req.Schedule[0].At)
	assert.Equal(t, "load-in", req.Schedule[0].Label)
	assert.Equal(t, "Drums", req.Roles[0].Role)
	assert.Equal(t, "Sam", req.Roles[0].Name)
}

func TestNormalizeEmptyStatusBecomesDraft(t *testing.T) {
	req := SaveRequest{Gig: GigInput{Title: "x", GigDate: "2026-01-01"}}
	req.Normalize()
	assert.Equal(t, "DRAFT", req.Gig.Status)
}

func TestValidateAcceptsMinimalRequest(t *testing.T) {
	req := validRequest()
	req.Normalize()
	assert.Empty(t, req.Validate())
}

func TestValidateGigID(t *testing.T) {
	req := validRequest()
	req.IsEditing = true
	problems := req.Validate()
	require.Contains(t, problems, "gig_id")

	req = validRequest()
	req.GigID = u64(9)
	problems = req.Validate()
	require.Contains(t, problems, "gig_id")
}

func TestValidateHeaderFields(t *testing.T) {
	req := validRequest()
	req.Gig.Title = ""
	assert.Contains(t, req.Validate(), "gig.title")

	req = validRequest()
	req.Gig.GigDate = "12/09/2026"
	assert.Contains(t, req.Validate(), "gig.gig_date")

	req = validRequest()
	req.Gig.Status = "MAYBE"
	assert.Contains(t, req.Validate(), "gig.status")
}

func TestValidateCollectionItems(t *testing.T) {
	req := validRequest()
	req.Schedule = []ScheduleItemInput{{At: "19:00"}}
	req.Materials = []MaterialItemInput{{URL: "https://x"}}
	req.Packing = []PackingItemInput{{}}
	req.Setlist = []SetlistSectionInput{{Title: "Set 1", Items: []SetlistItemInput{{Artist: "someone"}}}}
	req.Roles = []RoleInput{{Name: "Sam"}, {Role: "Bass"}}

	problems := req.Validate()
	assert.Contains(t, problems, "schedule[0].label")
	assert.Contains(t, problems, "materials[0].label")
	assert.Contains(t, problems, "packing[0].label")
	assert.Contains(t, problems, "setlist[0].items[0].title")
	assert.Contains(t, problems, "roles[0].role")
	assert.Contains(t, problems, "roles[1].name")
}
