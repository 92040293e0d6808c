package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

func TestVehiclePairRules(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	reg := seedRegistration(t, db, ev.ID, 2, storage.StatusRegistered)
	svc := NewVehicleService(db)

	owner, rider := reg.Members[0].ID, reg.Members[1].ID

	v, err := svc.Create(testCtx(), CreateArrangementInput{
		VehicleOwnerMemberID: owner,
		CoTravelerMemberID:   rider,
		SharingNotes:         "leaving at 6am",
	})
	require.NoError(t, err)
	assert.Equal(t, owner, v.VehicleOwnerMemberID)

	_, err = svc.Create(testCtx(), CreateArrangementInput{VehicleOwnerMemberID: owner, CoTravelerMemberID: rider})
	assert.ErrorIs(t, err, ErrPairExists)

	// 反向配对同样视为重复。
	_, err = svc.Create(testCtx(), CreateArrangementInput{VehicleOwnerMemberID: rider, CoTravelerMemberID: owner})
	assert.ErrorIs(t, err, ErrReversePairExists)

	_, err = svc.Create(testCtx(), CreateArrangementInput{VehicleOwnerMemberID: owner, CoTravelerMemberID: owner})
	assert.ErrorIs(t, err, ErrSamePairMember)

	_, err = svc.Create(testCtx(), CreateArrangementInput{VehicleOwnerMemberID: owner, CoTravelerMemberID: "no-such-member"})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestVehicleListUpdateDelete(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	reg := seedRegistration(t, db, ev.ID, 3, storage.StatusRegistered)
	svc := NewVehicleService(db)

	v1, err := svc.Create(testCtx(), CreateArrangementInput{
		VehicleOwnerMemberID: reg.Members[0].ID,
		CoTravelerMemberID:   reg.Members[1].ID,
	})
	require.NoError(t, err)
	_, err = svc.Create(testCtx(), CreateArrangementInput{
		VehicleOwnerMemberID: reg.Members[0].ID,
		CoTravelerMemberID:   reg.Members[2].ID,
	})
	require.NoError(t, err)

	all, err := svc.List(testCtx(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byOwner, err := svc.List(testCtx(), reg.Members[0].ID, "")
	require.NoError(t, err)
	assert.Len(t, byOwner, 2)

	byRider, err := svc.List(testCtx(), "", reg.Members[1].ID)
	require.NoError(t, err)
	assert.Len(t, byRider, 1)

	v1, err = svc.UpdateNotes(testCtx(), v1.ID, "meet at temple gate")
	require.NoError(t, err)
	assert.Equal(t, "meet at temple gate", v1.SharingNotes)

	require.NoError(t, svc.Delete(testCtx(), v1.ID))
	_, err = svc.Get(testCtx(), v1.ID)
	assert.ErrorIs(t, err, ErrArrangementNotFound)
}
