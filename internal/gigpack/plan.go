package gigpack

import "github.com/mwaldr/gigpack-server/internal/model"

// This file holds the pure planning half of the reconciliation: set
// arithmetic over persisted vs submitted identities, and the dedup
// matching of new role entries.  Keeping it free of SQL makes the
// invariants testable without a database.

// idSet collects the persisted identities present in a submission.
// Items without an identity are new and do not contribute.
func idSet(ids []*uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id != nil && *id != 0 {
			set[*id] = struct{}{}
		}
	}
	return set
}

// staleIDs returns persisted − submitted in persisted order.  These are
// the rows the save deletes so that the stored set converges to the
// submission.
func staleIDs(persisted []uint64, submitted map[uint64]struct{}) []uint64 {
	var stale []uint64
	for _, id := range persisted {
		if _, ok := submitted[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale
}

// scheduleIDs extracts the identity column of a schedule submission.
func scheduleIDs(items []ScheduleItemInput) []*uint64 {
	ids := make([]*uint64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func materialIDs(items []MaterialItemInput) []*uint64 {
	ids := make([]*uint64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func packingIDs(items []PackingItemInput) []*uint64 {
	ids := make([]*uint64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func sectionIDs(items []SetlistSectionInput) []*uint64 {
	ids := make([]*uint64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func roleIDs(items []RoleInput) []*uint64 {
	ids := make([]*uint64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

// linkedInRoles reports whether any row still links the given account.
func linkedInRoles(roles []model.GigRole, userID uint64) bool {
	for _, r := range roles {
		if r.UserID != nil && *r.UserID == userID {
			return true
		}
	}
	return false
}

// matchExistingRole deduplicates a submitted role entry that carries no
// persisted identity against the existing rows, so a resubmission does
// not insert duplicates.  Precedence: a linked account matches by user
// id regardless of how the name or role label were edited; entries
// without a linked account match by exact (role, name) pair.  The match
// is whitespace-trimmed but deliberately not case-folded.  Rows whose
// identity appears in the submission are skipped; they are updates,
// not dedup targets.
func matchExistingRole(in RoleInput, existing []model.GigRole, submitted map[uint64]struct{}) (uint64, bool) {
	for _, ex := range existing {
		if _, ok := submitted[ex.ID]; ok {
			continue
		}
		if in.UserID != nil {
			if ex.UserID != nil && *ex.UserID == *in.UserID {
				return ex.ID, true
			}
			continue
		}
		if ex.UserID == nil && ex.Role == in.Role && ex.Name == in.Name {
			return ex.ID, true
		}
	}
	return 0, false
}
