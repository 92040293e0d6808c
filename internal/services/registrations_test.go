package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

func registrationInput(eventID string, members []MemberInput) CreateRegistrationInput {
	typ := storage.RegistrationGroup
	if len(members) == 1 {
		typ = storage.RegistrationIndividual
	}
	return CreateRegistrationInput{
		EventID:            eventID,
		RegistrationType:   typ,
		NumberOfMembers:    len(members),
		TransportationMode: storage.TransportPublic,
		Members:            members,
	}
}

func TestRegistrationCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 2, 0)
	svc := NewRegistrationService(db)

	in := registrationInput(ev.ID, []MemberInput{
		{PhoneNumber: "9811111111", Name: "Asha", City: "Surat", Age: 28, Gender: "F"},
		{PhoneNumber: "9822222222", Name: "Ravi", City: "Surat", Age: 31, Gender: "M"},
	})
	in.DailyPreferences = []PreferenceInput{
		{EventDayID: ev.Days[0].ID, StayingWithGroup: true, DinnerAtHost: true, BreakfastAtHost: true, LunchWithGroup: true, ToiletPreference: storage.ToiletWestern},
	}

	reg, err := svc.Create(testCtx(), in)
	require.NoError(t, err)
	require.Len(t, reg.Members, 2)
	require.Len(t, reg.DailyPreferences, 1)
	for _, m := range reg.Members {
		assert.Equal(t, storage.StatusRegistered, m.Status)
	}

	got, err := svc.Get(testCtx(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, got.ID)
}

func TestRegistrationValidation(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	svc := NewRegistrationService(db)

	in := registrationInput(ev.ID, []MemberInput{{Name: "A"}, {Name: "B"}})
	in.RegistrationType = storage.RegistrationIndividual
	_, err := svc.Create(testCtx(), in)
	assert.ErrorIs(t, err, ErrIndividualMembers)

	in = registrationInput(ev.ID, []MemberInput{{Name: "A"}, {Name: "B"}})
	in.NumberOfMembers = 5
	_, err = svc.Create(testCtx(), in)
	assert.ErrorIs(t, err, ErrMemberCountMismatch)

	in = registrationInput("no-such-event", []MemberInput{{Name: "A"}})
	_, err = svc.Create(testCtx(), in)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegistrationWaitlistWatermark(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 2) // 名额 2
	svc := NewRegistrationService(db)

	first, err := svc.Create(testCtx(), registrationInput(ev.ID, []MemberInput{
		{PhoneNumber: "9811111111", Name: "Asha"},
		{PhoneNumber: "9822222222", Name: "Ravi"},
	}))
	require.NoError(t, err)
	for _, m := range first.Members {
		assert.Equal(t, storage.StatusRegistered, m.Status)
	}

	// 名额已满，后续成员全部进入候补。
	second, err := svc.Create(testCtx(), registrationInput(ev.ID, []MemberInput{
		{PhoneNumber: "9833333333", Name: "Meera"},
	}))
	require.NoError(t, err)
	for _, m := range second.Members {
		assert.Equal(t, storage.StatusWaiting, m.Status)
	}
}

func TestRegistrationWaitlistSplitsGroup(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 4)
	svc := NewRegistrationService(db)

	_, err := svc.Create(testCtx(), registrationInput(ev.ID, []MemberInput{
		{PhoneNumber: "9811111111", Name: "Asha"},
		{PhoneNumber: "9822222222", Name: "Ravi"},
	}))
	require.NoError(t, err)

	// 剩 2 个名额,3 人组跨过水位线 —— 按顺序逐人判定:
	// 前两人 registered,第三人候补。
	reg, err := svc.Create(testCtx(), registrationInput(ev.ID, []MemberInput{
		{PhoneNumber: "9833333333", Name: "Meera"},
		{PhoneNumber: "9844444444", Name: "Kiran"},
		{PhoneNumber: "9855555555", Name: "Dev"},
	}))
	require.NoError(t, err)
	statuses := map[string]string{}
	for _, m := range reg.Members {
		statuses[m.PhoneNumber] = m.Status
	}
	assert.Equal(t, storage.StatusRegistered, statuses["9833333333"])
	assert.Equal(t, storage.StatusRegistered, statuses["9844444444"])
	assert.Equal(t, storage.StatusWaiting, statuses["9855555555"])
}

func TestRegistrationList(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	svc := NewRegistrationService(db)

	for i := 0; i < 3; i++ {
		seedRegistration(t, db, ev.ID, 1, storage.StatusRegistered)
	}
	regs, total, err := svc.List(testCtx(), ev.ID, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, regs, 2)
}

func TestSearchByPhone(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 2, 0)
	svc := NewRegistrationService(db)

	in := registrationInput(ev.ID, []MemberInput{
		{PhoneNumber: "9811111111", Name: "Asha"},
		{PhoneNumber: "9822222222", Name: "Ravi"},
	})
	in.DailyPreferences = []PreferenceInput{
		{EventDayID: ev.Days[0].ID, StayingWithGroup: true, ToiletPreference: storage.ToiletWestern},
	}
	reg, err := svc.Create(testCtx(), in)
	require.NoError(t, err)

	// 给第一名成员在第一天安排住宿。
	host := seedHost(t, db, ev.ID, ev.Days[0].ID, 4)
	asvc := NewAssignmentService(db)
	_, err = asvc.Create(testCtx(), CreateAssignmentInput{
		HostID:               host.ID,
		RegistrationMemberID: reg.Members[0].ID,
		EventDayID:           ev.Days[0].ID,
	}, "admin-1")
	require.NoError(t, err)

	res, err := svc.SearchByPhone(testCtx(), ev.ID, "9822222222")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, res.RegistrationID)
	require.Len(t, res.Members, 2)
	require.Len(t, res.DailySchedule, 2)

	var asha *SearchMember
	for i := range res.Members {
		if res.Members[i].PhoneNumber == "9811111111" {
			asha = &res.Members[i]
		}
	}
	require.NotNil(t, asha)
	require.Len(t, asha.HostAssignments, 1)
	assert.Equal(t, host.Name, asha.HostAssignments[0].HostName)

	// 第一天使用声明偏好,第二天回落默认口径。
	assert.Equal(t, storage.ToiletWestern, res.DailySchedule[0].ToiletPreference)
	assert.True(t, res.DailySchedule[1].StayingWithGroup)
	assert.Equal(t, storage.ToiletIndian, res.DailySchedule[1].ToiletPreference)

	_, err = svc.SearchByPhone(testCtx(), ev.ID, "0000000000")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
