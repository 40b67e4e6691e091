package gigpack

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/mwaldr/gigpack-server/internal/model"
	"github.com/mwaldr/gigpack-server/internal/repository"
	"github.com/mwaldr/gigpack-server/internal/utils"
)

// Saver executes the gig pack save transaction.  All repositories must
// share the same *sql.DB.
type Saver struct {
	DB            *sql.DB
	Gigs          *repository.GigRepo
	Schedule      *repository.ScheduleRepo
	Materials     *repository.MaterialRepo
	Packing       *repository.PackingRepo
	Setlist       *repository.SetlistRepo
	Roles         *repository.RoleRepo
	Notifications *repository.NotificationRepo
	Shares        *repository.ShareTokenRepo
}

// NewSaver constructs a Saver over the shared database handle.
func NewSaver(db *sql.DB) *Saver {
	return &Saver{
		DB:            db,
		Gigs:          repository.NewGigRepo(db),
		Schedule:      repository.NewScheduleRepo(db),
		Materials:     repository.NewMaterialRepo(db),
		Packing:       repository.NewPackingRepo(db),
		Setlist:       repository.NewSetlistRepo(db),
		Roles:         repository.NewRoleRepo(db),
		Notifications: repository.NewNotificationRepo(db),
		Shares:        repository.NewShareTokenRepo(db),
	}
}

// Result is returned to the client after a successful save.  Invited
// lists the collaborators whose notification row was freshly created in
// this save; the handler publishes one broker event per entry after the
// transaction commits.
type Result struct {
	ID         uint64 `json:"id"`
	PublicSlug string `json:"public_slug"`
	Invited    []InvitedCollaborator `json:"-"`
}

// InvitedCollaborator identifies a freshly notified linked account.
type InvitedCollaborator struct {
	RoleID uint64
	UserID uint64
	Role   string
	Name   string
}

// Save atomically reconciles persisted state to match the submission.
// The whole operation is one database transaction: either every stage
// commits or none does.  A row lock on the gig serializes concurrent
// saves of the same gig; saves of different gigs run in parallel.
// There is no optimistic-concurrency check across sequential saves;
// the header row is last-write-wins.
//
// The request must be normalized and validated before calling Save.
func (s *Saver) Save(ctx context.Context, callerID uint64, req *SaveRequest) (*Result, error) {
	if callerID == 0 {
		return nil, ErrUnauthenticated
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec := gigRecordFrom(&req.Gig)
	if req.IsEditing && req.GigID != nil {
		rec.ID = *req.GigID
		if rec.BandID == nil {
			// A gig detached from its band falls back to the caller as
			// direct owner, preserving the one-managing-party invariant.
			rec.OwnerID = &callerID
		}
		if err := s.Gigs.LockForSaveTx(ctx, tx, rec.ID, callerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrForbidden) {
				return nil, ErrNotFound
			}
			return nil, stageFail("header", err)
		}
		if err := s.Gigs.UpdateHeaderTx(ctx, tx, rec); err != nil {
			return nil, stageFail("header", err)
		}
	} else {
		if rec.BandID == nil {
			rec.OwnerID = &callerID
		}
		if err := s.Gigs.InsertTx(ctx, tx, rec); err != nil {
			return nil, stageFail("header", err)
		}
		// A band gig must be created by the band's owner; the lock
		// check doubles as the ownership check for the fresh row.
		if err := s.Gigs.LockForSaveTx(ctx, tx, rec.ID, callerID); err != nil {
			if errors.Is(err, repository.ErrForbidden) {
				return nil, ErrNotFound
			}
			return nil, stageFail("header", err)
		}
	}
	gigID := rec.ID

	if err := s.saveSchedule(ctx, tx, gigID, req.Schedule); err != nil {
		return nil, stageFail("schedule", err)
	}
	if err := s.saveMaterials(ctx, tx, gigID, req.Materials); err != nil {
		return nil, stageFail("materials", err)
	}
	if err := s.savePacking(ctx, tx, gigID, req.Packing); err != nil {
		return nil, stageFail("packing", err)
	}
	if err := s.saveSetlist(ctx, tx, gigID, req.Setlist); err != nil {
		return nil, stageFail("setlist", err)
	}
	invited, err := s.saveRoles(ctx, tx, gigID, callerID, req.Gig.Title, req.Roles)
	if err != nil {
		return nil, stageFail("roles", err)
	}

	token := req.ShareToken
	if token == "" {
		token, err = s.Shares.ActiveTokenTx(ctx, tx, gigID)
		if errors.Is(err, sql.ErrNoRows) {
			token, err = utils.NewPublicSlug()
		}
		if err != nil {
			return nil, stageFail("shares", err)
		}
	}
	if err := s.Shares.UpsertTx(ctx, tx, gigID, token); err != nil {
		return nil, stageFail("shares", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &Result{ID: gigID, PublicSlug: token, Invited: invited}, nil
}

// saveSchedule applies the diff-by-identity pattern to the schedule:
// delete persisted rows missing from the submission, then upsert every
// submitted row with its array position as the sort order.  After the
// transaction commits the persisted set equals the submitted set.
func (s *Saver) saveSchedule(ctx context.Context, tx *sql.Tx, gigID uint64, items []ScheduleItemInput) error {
	persisted, err := s.Schedule.ListIDsTx(ctx, tx, gigID)
	if err != nil {
		return err
	}
	submitted := idSet(scheduleIDs(items))
	if err := s.Schedule.DeleteTx(ctx, tx, gigID, staleIDs(persisted, submitted)); err != nil {
		return err
	}
	for i, it := range items {
		rec := repository.ScheduleItemRecord{ID: it.ID, At: it.At, Label: it.Label}
		if err := s.Schedule.UpsertTx(ctx, tx, gigID, i, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *Saver) saveMaterials(ctx context.Context, tx *sql.Tx, gigID uint64, items []MaterialItemInput) error {
	persisted, err := s.Materials.ListIDsTx(ctx, tx, gigID)
	if err != nil {
		return err
	}
	submitted := idSet(materialIDs(items))
	if err := s.Materials.DeleteTx(ctx, tx, gigID, staleIDs(persisted, submitted)); err != nil {
		return err
	}
	for i, it := range items {
		rec := repository.MaterialItemRecord{ID: it.ID, Label: it.Label, URL: it.URL, Kind: it.Kind}
		if err := s.Materials.UpsertTx(ctx, tx, gigID, i, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *Saver) savePacking(ctx context.Context, tx *sql.Tx, gigID uint64, items []PackingItemInput) error {
	persisted, err := s.Packing.ListIDsTx(ctx, tx, gigID)
	if err != nil {
		return err
	}
	submitted := idSet(packingIDs(items))
	if err := s.Packing.DeleteTx(ctx, tx, gigID, staleIDs(persisted, submitted)); err != nil {
		return err
	}
	for i, it := range items {
		rec := repository.PackingItemRecord{ID: it.ID, Label: it.Label}
		if err := s.Packing.UpsertTx(ctx, tx, gigID, i, rec); err != nil {
			return err
		}
	}
	return nil
}

// saveSetlist diffs sections by identity like the flat collections, so
// section ids survive a save; the songs of each surviving section are
// replaced wholesale.
func (s *Saver) saveSetlist(ctx context.Context, tx *sql.Tx, gigID uint64, sections []SetlistSectionInput) error {
	persisted, err := s.Setlist.ListSectionIDsTx(ctx, tx, gigID)
	if err != nil {
		return err
	}
	submitted := idSet(sectionIDs(sections))
	if err := s.Setlist.DeleteSectionsTx(ctx, tx, gigID, staleIDs(persisted, submitted)); err != nil {
		return err
	}
	for i, sec := range sections {
		secID, err := s.Setlist.UpsertSectionTx(ctx, tx, gigID, i, repository.SetlistSectionRecord{ID: sec.ID, Title: sec.Title})
		if err != nil {
			return err
		}
		items := make([]repository.SetlistItemRecord, len(sec.Items))
		for j, it := range sec.Items {
			items[j] = repository.SetlistItemRecord{Title: it.Title, Artist: it.Artist, Note: it.Note}
		}
		if err := s.Setlist.ReplaceItemsTx(ctx, tx, secID, items); err != nil {
			return err
		}
	}
	return nil
}

// saveRoles reconciles the lineup.  Identified entries are updated,
// absent rows are deleted together with the invite notifications of
// their linked accounts, and entries without an identity are
// deduplicated against existing rows before insertion, by linked
// account first and by (role, name) pair otherwise.  Every freshly
// inserted role with a linked account other than the caller gets
// exactly one invitation_received notification.
func (s *Saver) saveRoles(ctx context.Context, tx *sql.Tx, gigID, callerID uint64, gigTitle string, roles []RoleInput) ([]InvitedCollaborator, error) {
	existing, err := s.Roles.ListTx(ctx, tx, gigID)
	if err != nil {
		return nil, err
	}
	persisted := make([]uint64, len(existing))
	for i, ex := range existing {
		persisted[i] = ex.ID
	}
	submitted := idSet(roleIDs(roles))
	stale := staleIDs(persisted, submitted)
	if err := s.Roles.DeleteTx(ctx, tx, gigID, stale); err != nil {
		return nil, err
	}
	if len(stale) > 0 {
		staleSet := make(map[uint64]struct{}, len(stale))
		for _, id := range stale {
			staleSet[id] = struct{}{}
		}
		var kept, removed []model.GigRole
		for _, ex := range existing {
			if _, gone := staleSet[ex.ID]; gone {
				removed = append(removed, ex)
			} else {
				kept = append(kept, ex)
			}
		}
		existing = kept
		// Notifications are keyed on (user, gig, type) with no reference
		// to the role row, so the invite of a removed collaborator must
		// be cleared here.  A surviving row for the same account keeps
		// its notification.
		for _, ex := range removed {
			if ex.UserID == nil || *ex.UserID == callerID || linkedInRoles(existing, *ex.UserID) {
				continue
			}
			if err := s.Notifications.DeleteForUserGigTx(ctx, tx, *ex.UserID, gigID, model.NotificationInviteReceived); err != nil {
				return nil, err
			}
		}
	}

	var invited []InvitedCollaborator
	for i, in := range roles {
		rec := repository.GigRoleRecord{
			ID:        in.ID,
			Role:      in.Role,
			Name:      in.Name,
			UserID:    in.UserID,
			ContactID: in.ContactID,
			Notes:     in.Notes,
			FeeCents:  in.FeeCents,
		}
		if in.ID != nil {
			if err := s.Roles.UpdateTx(ctx, tx, gigID, i, rec); err != nil {
				return nil, err
			}
			continue
		}
		if _, dup := matchExistingRole(in, existing, submitted); dup {
			continue
		}
		status := model.InvitePending
		if in.UserID != nil && *in.UserID != callerID {
			status = model.InviteInvited
		}
		roleID, err := s.Roles.InsertTx(ctx, tx, gigID, i, rec, status)
		if err != nil {
			return nil, err
		}
		// Later entries of the same submission dedup against this
		// fresh row too, so double-submitting a collaborator in one
		// save still yields a single role.
		existing = append(existing, model.GigRole{ID: roleID, Role: in.Role, Name: in.Name, UserID: in.UserID})

		if in.UserID != nil && *in.UserID != callerID {
			payload, err := json.Marshal(map[string]interface{}{
				"gig_id":    gigID,
				"gig_title": gigTitle,
				"role":      in.Role,
				"name":      in.Name,
			})
			if err != nil {
				return nil, err
			}
			fresh, err := s.Notifications.InsertOnceTx(ctx, tx, *in.UserID, gigID, model.NotificationInviteReceived, string(payload))
			if err != nil {
				return nil, err
			}
			if fresh {
				invited = append(invited, InvitedCollaborator{RoleID: roleID, UserID: *in.UserID, Role: in.Role, Name: in.Name})
			}
		}
	}
	return invited, nil
}

func gigRecordFrom(in *GigInput) *repository.GigRecord {
	return &repository.GigRecord{
		Title:          in.Title,
		GigDate:        in.GigDate,
		BandID:         in.BandID,
		VenueName:      in.VenueName,
		VenueAddress:   in.VenueAddress,
		AccentColor:    in.AccentColor,
		HeaderImageURL: in.HeaderImageURL,
		Theme:          in.Theme,
		Notes:          in.Notes,
		PrivateNotes:   in.PrivateNotes,
		Status:         in.Status,
	}
}
