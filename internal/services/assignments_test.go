package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

func TestAssignmentCreateRules(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	reg := seedRegistration(t, db, ev.ID, 2, storage.StatusRegistered)
	host := seedHost(t, db, ev.ID, ev.Days[0].ID, 1)
	svc := NewAssignmentService(db)

	a, err := svc.Create(testCtx(), CreateAssignmentInput{
		HostID:               host.ID,
		RegistrationMemberID: reg.Members[0].ID,
		EventDayID:           ev.Days[0].ID,
		AssignmentNotes:      "ground floor",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", a.AssignedBy)

	// 同日重复分配拒绝。
	_, err = svc.Create(testCtx(), CreateAssignmentInput{
		HostID:               host.ID,
		RegistrationMemberID: reg.Members[0].ID,
		EventDayID:           ev.Days[0].ID,
	}, "admin-1")
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	// 床位已满。
	_, err = svc.Create(testCtx(), CreateAssignmentInput{
		HostID:               host.ID,
		RegistrationMemberID: reg.Members[1].ID,
		EventDayID:           ev.Days[0].ID,
	}, "admin-1")
	assert.ErrorIs(t, err, ErrHostFull)

	_, err = svc.Create(testCtx(), CreateAssignmentInput{
		HostID:               "no-such-host",
		RegistrationMemberID: reg.Members[1].ID,
		EventDayID:           ev.Days[0].ID,
	}, "admin-1")
	assert.ErrorIs(t, err, ErrHostNotFound)
}

func TestAssignmentBulkPartial(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	reg := seedRegistration(t, db, ev.ID, 3, storage.StatusRegistered)
	host := seedHost(t, db, ev.ID, ev.Days[0].ID, 2)
	svc := NewAssignmentService(db)

	ids := []string{reg.Members[0].ID, reg.Members[1].ID, reg.Members[2].ID}
	res, err := svc.Bulk(testCtx(), BulkInput{HostID: host.ID, EventDayID: ev.Days[0].ID, MemberIDs: ids}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 2, res.Assigned)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, ids[2], res.Failures[0].MemberID)
	assert.Equal(t, "host_capacity_exceeded", res.Failures[0].Reason)

	// 再批量一次:前两人重复,第三人仍无床位。
	res, err = svc.Bulk(testCtx(), BulkInput{HostID: host.ID, EventDayID: ev.Days[0].ID, MemberIDs: ids}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Assigned)
	assert.Equal(t, 3, res.Failed)
}

func TestAssignmentUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	reg := seedRegistration(t, db, ev.ID, 1, storage.StatusRegistered)
	host := seedHost(t, db, ev.ID, ev.Days[0].ID, 2)
	svc := NewAssignmentService(db)

	a, err := svc.Create(testCtx(), CreateAssignmentInput{
		HostID:               host.ID,
		RegistrationMemberID: reg.Members[0].ID,
		EventDayID:           ev.Days[0].ID,
	}, "admin-1")
	require.NoError(t, err)

	a, err = svc.UpdateNotes(testCtx(), a.ID, "prefers early dinner")
	require.NoError(t, err)
	assert.Equal(t, "prefers early dinner", a.AssignmentNotes)

	require.NoError(t, svc.Delete(testCtx(), a.ID))
	_, err = svc.Get(testCtx(), a.ID)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestMemberCancelClearsAssignments(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	reg := seedRegistration(t, db, ev.ID, 1, storage.StatusRegistered)
	host := seedHost(t, db, ev.ID, ev.Days[0].ID, 2)

	asvc := NewAssignmentService(db)
	_, err := asvc.Create(testCtx(), CreateAssignmentInput{
		HostID:               host.ID,
		RegistrationMemberID: reg.Members[0].ID,
		EventDayID:           ev.Days[0].ID,
	}, "admin-1")
	require.NoError(t, err)

	msvc := NewMemberService(db)
	m, err := msvc.UpdateStatus(testCtx(), reg.Members[0].ID, storage.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusCancelled, m.Status)

	page, err := asvc.ListFiltered(testCtx(), AssignmentFilter{MemberID: reg.Members[0].ID})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
}
