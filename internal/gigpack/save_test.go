package gigpack

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaldr/gigpack-server/internal/model"
)

var gigRoleColumns = []string{
	"id", "gig_id", "role", "name", "user_id", "contact_id", "notes", "sort_order",
	"invitation_status", "fee_cents", "payment_status", "created_at", "updated_at",
}

func newMockSaver(t *testing.T) (*Saver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSaver(db), mock
}

func editRequest(gigID uint64) *SaveRequest {
	return &SaveRequest{
		IsEditing: true,
		GigID:     u64(gigID),
		Gig:       GigInput{Title: "Festival Night", GigDate: "2026-06-20", Status: "DRAFT"},
	}
}

func expectLock(mock sqlmock.Sqlmock, gigID, ownerID uint64) {
	mock.ExpectQuery(`SELECT g\.owner_id, b\.owner_id FROM gigs g`).
		WithArgs(gigID).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "owner_id"}).AddRow(ownerID, nil))
}

func expectHeaderUpdate(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`UPDATE gigs SET title=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func expectEmptyIDList(mock sqlmock.Sqlmock, table string, gigID uint64) {
	mock.ExpectQuery(`SELECT id FROM ` + table).
		WithArgs(gigID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func expectEmptyRoleList(mock sqlmock.Sqlmock, gigID uint64) {
	mock.ExpectQuery(`FROM gig_roles WHERE gig_id`).
		WithArgs(gigID).
		WillReturnRows(sqlmock.NewRows(gigRoleColumns))
}

func expectShareReuse(mock sqlmock.Sqlmock, gigID uint64, token string) {
	mock.ExpectQuery(`SELECT token FROM share_tokens`).
		WithArgs(gigID).
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow(token))
	mock.ExpectExec(`INSERT INTO share_tokens`).
		WithArgs(gigID, token).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

// A failure in any stage must roll the whole transaction back so the
// stored pack is never left half reconciled.
func TestSaveRollsBackWhenStageFails(t *testing.T) {
	s, mock := newMockSaver(t)

	mock.ExpectBegin()
	expectLock(mock, 1, 7)
	expectHeaderUpdate(mock)
	mock.ExpectQuery(`SELECT id FROM gig_schedule`).
		WithArgs(uint64(1)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	res, err := s.Save(context.Background(), 7, editRequest(1))
	require.Error(t, err)
	assert.Nil(t, res)
	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, "schedule", stage.Stage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUnknownGigIsNotFound(t *testing.T) {
	s, mock := newMockSaver(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT g\.owner_id, b\.owner_id FROM gigs g`).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := s.Save(context.Background(), 7, editRequest(404))
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A gig managed by someone else reads as not found, indistinguishable
// from a gig that does not exist.
func TestSaveForeignGigIsNotFound(t *testing.T) {
	s, mock := newMockSaver(t)

	mock.ExpectBegin()
	expectLock(mock, 1, 99)
	mock.ExpectRollback()

	_, err := s.Save(context.Background(), 7, editRequest(1))
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Creating a gig without a share token mints a fresh public slug and
// attaches it inside the same transaction.
func TestSaveMintsSlugOnCreate(t *testing.T) {
	s, mock := newMockSaver(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO gigs`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	expectLock(mock, 42, 7)
	expectEmptyIDList(mock, "gig_schedule", 42)
	expectEmptyIDList(mock, "gig_materials", 42)
	expectEmptyIDList(mock, "gig_packing", 42)
	expectEmptyIDList(mock, "setlist_sections", 42)
	expectEmptyRoleList(mock, 42)
	mock.ExpectQuery(`SELECT token FROM share_tokens`).
		WithArgs(uint64(42)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO share_tokens`).
		WithArgs(uint64(42), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	req := &SaveRequest{
		Gig: GigInput{Title: "Festival Night", GigDate: "2026-06-20", Status: "DRAFT"},
	}
	res, err := s.Save(context.Background(), 7, req)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.ID)
	assert.Len(t, res.PublicSlug, 12)
	require.NoError(t, mock.ExpectationsWereMet())
}

// An identified schedule item is updated with both its id and the gig
// id in the predicate, so a submitted id belonging to another gig can
// never rewrite that gig's row.
func TestSaveUpdatesIdentifiedItemsWithinGigOnly(t *testing.T) {
	s, mock := newMockSaver(t)

	mock.ExpectBegin()
	expectLock(mock, 1, 7)
	expectHeaderUpdate(mock)
	mock.ExpectQuery(`SELECT id FROM gig_schedule`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`UPDATE gig_schedule SET at_label=\?, label=\?, sort_order=\? WHERE id=\? AND gig_id=\?`).
		WithArgs("19:00", "Soundcheck", 0, uint64(11), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectEmptyIDList(mock, "gig_materials", 1)
	expectEmptyIDList(mock, "gig_packing", 1)
	expectEmptyIDList(mock, "setlist_sections", 1)
	expectEmptyRoleList(mock, 1)
	expectShareReuse(mock, 1, "abcdefgh2345")
	mock.ExpectCommit()

	req := editRequest(1)
	req.Schedule = []ScheduleItemInput{{ID: u64(11), At: "19:00", Label: "Soundcheck"}}
	res, err := s.Save(context.Background(), 7, req)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh2345", res.PublicSlug)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Removing a linked collaborator clears their invite notification in
// the same transaction, so re-adding the same account later produces a
// fresh notification instead of silently hitting the duplicate key.
func TestSaveRemovedCollaboratorNotificationCleared(t *testing.T) {
	s, mock := newMockSaver(t)
	now := time.Now()

	mock.ExpectBegin()
	expectLock(mock, 1, 7)
	expectHeaderUpdate(mock)
	expectEmptyIDList(mock, "gig_schedule", 1)
	expectEmptyIDList(mock, "gig_materials", 1)
	expectEmptyIDList(mock, "gig_packing", 1)
	expectEmptyIDList(mock, "setlist_sections", 1)
	mock.ExpectQuery(`FROM gig_roles WHERE gig_id`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(gigRoleColumns).
			AddRow(10, 1, "Drums", "Sam", 9, nil, "", 0, model.InviteInvited, 0, model.PayUnpaid, now, now))
	mock.ExpectExec(`DELETE FROM gig_roles WHERE gig_id = \? AND id IN`).
		WithArgs(uint64(1), uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM notifications WHERE user_id=\? AND gig_id=\? AND type=\?`).
		WithArgs(uint64(9), uint64(1), model.NotificationInviteReceived).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectShareReuse(mock, 1, "abcdefgh2345")
	mock.ExpectCommit()

	_, err := s.Save(context.Background(), 7, editRequest(1))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
