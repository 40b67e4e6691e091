package gigpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaldr/gigpack-server/internal/model"
)

func u64(v uint64) *uint64 { return &v }

func TestIDSet(t *testing.T) {
	set := idSet([]*uint64{u64(1), nil, u64(3), u64(0)})
	assert.Len(t, set, 2)
	assert.Contains(t, set, uint64(1))
	assert.Contains(t, set, uint64(3))
	assert.NotContains(t, set, uint64(0))
}

func TestStaleIDs(t *testing.T) {
	tests := []struct {
		name      string
		persisted []uint64
		submitted []*uint64
		want      []uint64
	}{
		{
			name:      "everything resubmitted",
			persisted: []uint64{1, 2, 3},
			submitted: []*uint64{u64(1), u64(2), u64(3)},
			want:      nil,
		},
		{
			name:      "partial resubmission deletes the rest",
			persisted: []uint64{1, 2, 3},
			submitted: []*uint64{u64(2)},
			want:      []uint64{1, 3},
		},
		{
			name:      "empty submission clears the collection",
			persisted: []uint64{4, 5},
			submitted: nil,
			want:      []uint64{4, 5},
		},
		{
			name:      "new items do not protect persisted rows",
			persisted: []uint64{7},
			submitted: []*uint64{nil, nil},
			want:      []uint64{7},
		},
		{
			name:      "nothing persisted",
			persisted: nil,
			submitted: []*uint64{u64(1)},
			want:      nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := staleIDs(tt.persisted, idSet(tt.submitted))
			assert.Equal(t, tt.want, got)
		})
	}
}

// Deleting stale rows and upserting the submission must converge: the
// surviving persisted set equals exactly the submitted identities.
func TestReconcileConverges(t *testing.T) {
	persisted := []uint64{10, 11, 12, 13}
	items := []ScheduleItemInput{
		{ID: u64(11), Label: "soundcheck"},
		{ID: u64(13), Label: "doors"},
		{Label: "showtime"}, // new row
	}
	submitted := idSet(scheduleIDs(items))
	stale := staleIDs(persisted, submitted)
	require.Equal(t, []uint64{10, 12}, stale)

	survivors := map[uint64]struct{}{}
	staleSet := map[uint64]struct{}{}
	for _, id := range stale {
		staleSet[id] = struct{}{}
	}
	for _, id := range persisted {
		if _, gone := staleSet[id]; !gone {
			survivors[id] = struct{}{}
		}
	}
	assert.Equal(t, submitted, survivors)
}

func TestMatchExistingRoleByLinkedUser(t *testing.T) {
	existing := []model.GigRole{
		{ID: 1, Role: "Drums", Name: "Sam", UserID: u64(42)},
		{ID: 2, Role: "Bass", Name: "Lou"},
	}
	// Linked account matches by user id even when role and name changed.
	in := RoleInput{Role: "Percussion", Name: "Sammy", UserID: u64(42)}
	id, ok := matchExistingRole(in, existing, map[uint64]struct{}{})
	require.True(t, ok)
	assert.Equal(t, uint64(1), id)

	// A different linked account never matches by name.
	in = RoleInput{Role: "Drums", Name: "Sam", UserID: u64(99)}
	_, ok = matchExistingRole(in, existing, map[uint64]struct{}{})
	assert.False(t, ok)
}

func TestMatchExistingRoleByRoleNamePair(t *testing.T) {
	existing := []model.GigRole{
		{ID: 1, Role: "Drums", Name: "Sam", UserID: u64(42)},
		{ID: 2, Role: "Bass", Name: "Lou"},
	}
	// Unlinked entries match only rows that are also unlinked.
	in := RoleInput{Role: "Bass", Name: "Lou"}
	id, ok := matchExistingRole(in, existing, map[uint64]struct{}{})
	require.True(t, ok)
	assert.Equal(t, uint64(2), id)

	// Same name as a linked row is not a match: the linked row belongs
	// to the account, not the label.
	in = RoleInput{Role: "Drums", Name: "Sam"}
	_, ok = matchExistingRole(in, existing, map[uint64]struct{}{})
	assert.False(t, ok)

	// Case differences are preserved, so "bass" is a distinct entry.
	in = RoleInput{Role: "bass", Name: "Lou"}
	_, ok = matchExistingRole(in, existing, map[uint64]struct{}{})
	assert.False(t, ok)
}

func TestMatchExistingRoleSkipsIdentifiedRows(t *testing.T) {
	existing := []model.GigRole{
		{ID: 5, Role: "Keys", Name: "Ana", UserID: u64(7)},
	}
	// Row 5 is identified elsewhere in the submission, so it is an
	// update target and must not absorb this new entry.
	submitted := map[uint64]struct{}{5: {}}
	_, ok := matchExistingRole(RoleInput{Role: "Keys", Name: "Ana", UserID: u64(7)}, existing, submitted)
	assert.False(t, ok)
}
