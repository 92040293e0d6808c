package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

func TestDashboardSummaryScope(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	svc := NewDashboardService(db, nil, time.Minute)

	// 全员在场的 2 人组。
	attending := seedRegistration(t, db, ev.ID, 2, storage.StatusRegistered)
	attending.TransportationMode = storage.TransportPrivate
	attending.HasEmptySeats = true
	attending.AvailableSeatsCount = 3
	require.NoError(t, db.Save(attending).Error)

	// 含候补成员的组:计入总量,不计入画像。
	mixed := seedRegistration(t, db, ev.ID, 2, storage.StatusRegistered)
	require.NoError(t, db.Model(&storage.RegistrationMember{}).
		Where("id = ?", mixed.Members[0].ID).
		Update("status", storage.StatusWaiting).Error)

	d, err := svc.Get(testCtx(), ev.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 2, d.Summary.TotalRegistrations)
	assert.EqualValues(t, 4, d.Summary.TotalMembers)
	assert.Equal(t, 3, d.Summary.StatusCounts[storage.StatusRegistered])
	assert.Equal(t, 1, d.Summary.StatusCounts[storage.StatusWaiting])

	assert.Equal(t, 1, d.Summary.FullyAttendingGroups)
	assert.Equal(t, 2, d.Summary.FullyAttendingMembers)
	assert.Equal(t, 2, d.Summary.GenderCounts["M"])
	assert.Equal(t, 1, d.Summary.TransportCounts[storage.TransportPrivate])
	assert.Equal(t, 1, d.Summary.GroupsWithEmptySeats)
	assert.Equal(t, 3, d.Summary.TotalEmptySeats)
	assert.Equal(t, 2, d.Summary.ToiletCounts[storage.ToiletIndian])

	_, err = svc.Get(testCtx(), "no-such-event")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDashboardDayCountsAndDefaults(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 2, 0)
	svc := NewDashboardService(db, nil, time.Minute)

	reg := seedRegistration(t, db, ev.ID, 2, storage.StatusConfirmed)
	// 仅声明第一天偏好:不随团住宿、西式卫生间;第二天回落默认口径。
	require.NoError(t, db.Create(&storage.DailyPreference{
		ID:               uuid.NewString(),
		EventDayID:       ev.Days[0].ID,
		RegistrationID:   reg.ID,
		StayingWithGroup: false,
		LunchWithGroup:   true,
		ToiletPreference: storage.ToiletWestern,
	}).Error)

	d, err := svc.Get(testCtx(), ev.ID)
	require.NoError(t, err)
	require.Len(t, d.Days, 2)

	// 卫生间口径不受随团住宿影响:不住也按声明偏好计数。
	day1, day2 := d.Days[0], d.Days[1]
	assert.Equal(t, 0, day1.StayingCount)
	assert.Equal(t, 2, day1.ToiletWestern)
	assert.Equal(t, 2, day1.LunchCount)
	assert.Equal(t, 0, day1.DinnerCount)

	assert.Equal(t, 2, day2.StayingCount)
	assert.Equal(t, 2, day2.ToiletIndian)
	assert.Equal(t, 2, day2.BreakfastCount)
	assert.Len(t, day2.Members, 2)

	// 汇总卫生间分布按成员去重,以首日偏好各计一次。
	assert.Equal(t, 2, d.Summary.ToiletCounts[storage.ToiletWestern])
	assert.Equal(t, 0, d.Summary.ToiletCounts[storage.ToiletIndian])
}

func TestDashboardDayListsNonAttendingMembers(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	svc := NewDashboardService(db, nil, time.Minute)

	// 组内一人候补:明细仍列出全组,计数口径不计入。
	reg := seedRegistration(t, db, ev.ID, 2, storage.StatusRegistered)
	require.NoError(t, db.Model(&storage.RegistrationMember{}).
		Where("id = ?", reg.Members[0].ID).
		Update("status", storage.StatusWaiting).Error)

	d, err := svc.Get(testCtx(), ev.ID)
	require.NoError(t, err)
	require.Len(t, d.Days, 1)
	assert.Len(t, d.Days[0].Members, 2)
	assert.Equal(t, 0, d.Days[0].StayingCount)
	assert.Equal(t, 0, d.Days[0].ToiletIndian)
	assert.Equal(t, 0, d.Summary.ToiletCounts[storage.ToiletIndian])
}

func TestDashboardSummaryToiletCountedOncePerMember(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 3, 0)
	svc := NewDashboardService(db, nil, time.Minute)

	seedRegistration(t, db, ev.ID, 1, storage.StatusRegistered)

	d, err := svc.Get(testCtx(), ev.ID)
	require.NoError(t, err)
	require.Len(t, d.Days, 3)
	// 默认口径下每天各计一次,汇总只计一人一次。
	for _, day := range d.Days {
		assert.Equal(t, 1, day.ToiletIndian)
	}
	assert.Equal(t, 1, d.Summary.ToiletCounts[storage.ToiletIndian])
}

func TestDashboardGenderCountsClamped(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	svc := NewDashboardService(db, nil, time.Minute)

	reg := seedRegistration(t, db, ev.ID, 2, storage.StatusRegistered)
	require.NoError(t, db.Model(&storage.RegistrationMember{}).
		Where("id = ?", reg.Members[0].ID).
		Update("gender", "X").Error)

	d, err := svc.Get(testCtx(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Summary.GenderCounts[storage.GenderMale])
	assert.NotContains(t, d.Summary.GenderCounts, "X")
}

func TestDashboardMemberHostInfo(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	svc := NewDashboardService(db, nil, time.Minute)

	reg := seedRegistration(t, db, ev.ID, 1, storage.StatusRegistered)
	host := seedHost(t, db, ev.ID, ev.Days[0].ID, 2)
	asvc := NewAssignmentService(db)
	_, err := asvc.Create(testCtx(), CreateAssignmentInput{
		HostID:               host.ID,
		RegistrationMemberID: reg.Members[0].ID,
		EventDayID:           ev.Days[0].ID,
	}, "admin-1")
	require.NoError(t, err)

	d, err := svc.Get(testCtx(), ev.ID)
	require.NoError(t, err)
	require.Len(t, d.Days, 1)
	require.Len(t, d.Days[0].Members, 1)
	assert.Equal(t, host.Name, d.Days[0].Members[0].HostName)
	assert.Equal(t, host.PlaceName, d.Days[0].Members[0].PlaceName)
}
