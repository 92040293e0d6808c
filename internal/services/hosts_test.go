package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

func TestHostCreateAndPhoneUniquePerDay(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 2, 0)
	svc := NewHostService(db)

	in := CreateHostInput{
		EventID:          ev.ID,
		EventDayID:       ev.Days[0].ID,
		Name:             "Shah Family",
		PhoneNo:          9812345678,
		PlaceName:        "Temple Road",
		MaxParticipants:  4,
		ToiletFacilities: storage.ToiletWestern,
		GenderPreference: storage.GenderPrefBoth,
	}
	h, err := svc.Create(testCtx(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)

	_, err = svc.Create(testCtx(), in)
	assert.ErrorIs(t, err, ErrHostPhoneTaken)

	// 同一号码在另一天允许。
	in.EventDayID = ev.Days[1].ID
	_, err = svc.Create(testCtx(), in)
	require.NoError(t, err)

	in.EventDayID = "no-such-day"
	_, err = svc.Create(testCtx(), in)
	assert.ErrorIs(t, err, ErrEventDayNotFound)
}

func TestHostDetailCapacity(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	reg := seedRegistration(t, db, ev.ID, 2, storage.StatusRegistered)
	host := seedHost(t, db, ev.ID, ev.Days[0].ID, 3)

	asvc := NewAssignmentService(db)
	_, err := asvc.Create(testCtx(), CreateAssignmentInput{
		HostID:               host.ID,
		RegistrationMemberID: reg.Members[0].ID,
		EventDayID:           ev.Days[0].ID,
	}, "admin-1")
	require.NoError(t, err)

	svc := NewHostService(db)
	detail, err := svc.Get(testCtx(), host.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.CurrentCapacity)
	assert.Equal(t, 2, detail.AvailableCapacity)
	require.Len(t, detail.AssignedParticipants, 1)
	assert.Equal(t, reg.Members[0].ID, detail.AssignedParticipants[0].MemberID)
}

func TestHostListFilteredPaging(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	svc := NewHostService(db)

	for i := 0; i < 5; i++ {
		seedHost(t, db, ev.ID, ev.Days[0].ID, 2+i)
	}
	page, err := svc.ListFiltered(testCtx(), HostFilter{EventID: ev.ID, Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Len(t, page.Hosts, 2)
	assert.Equal(t, 3, page.TotalPages)

	// 非法分页参数回落默认值。
	page, err = svc.ListFiltered(testCtx(), HostFilter{EventID: ev.ID, Page: -1, PageSize: 9999})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)

	page, err = svc.ListFiltered(testCtx(), HostFilter{EventID: ev.ID, Search: "Patel"})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
}

func TestHostDeleteBlockedByAssignments(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 1, 0)
	reg := seedRegistration(t, db, ev.ID, 1, storage.StatusRegistered)
	host := seedHost(t, db, ev.ID, ev.Days[0].ID, 2)
	svc := NewHostService(db)
	asvc := NewAssignmentService(db)

	a, err := asvc.Create(testCtx(), CreateAssignmentInput{
		HostID:               host.ID,
		RegistrationMemberID: reg.Members[0].ID,
		EventDayID:           ev.Days[0].ID,
	}, "admin-1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(testCtx(), host.ID), ErrHostHasAssignments)

	require.NoError(t, asvc.Delete(testCtx(), a.ID))
	require.NoError(t, svc.Delete(testCtx(), host.ID))
}

func TestHostImportCSV(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, 2, 0)
	svc := NewHostService(db)

	day1 := ev.Days[0].EventDate.Format("2006-01-02")
	csvData := strings.Join([]string{
		"name,phone_no,place_name,max_participants,toilet_facilities,gender_preference,facilities_description,event_date",
		"Shah Family,9811111111,Temple Road,4,western,both,near bus stop," + day1,
		",9822222222,Main Street,2,,,missing name," + day1,
		"Mehta Family,not-a-phone,Main Street,2,,,," + day1,
		"Joshi Family,9833333333,River Side,3,indian,female,,2030-01-01",
		"Desai Family,9844444444,Lake View,2,,,," + day1,
	}, "\n")

	res, err := svc.ImportCSV(testCtx(), ev.ID, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalRows)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 3, res.Failed)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, "name required", res.Errors[0].Reason)
	assert.Equal(t, "invalid phone_no", res.Errors[1].Reason)
	assert.Equal(t, "event_date does not match any event day", res.Errors[2].Reason)

	// 空缺的设施字段回落 both。
	assert.Equal(t, storage.ToiletBoth, res.Hosts[1].ToiletFacilities)
	assert.Equal(t, storage.GenderPrefBoth, res.Hosts[1].GenderPreference)

	// 缺少必需列时整体失败。
	_, err = svc.ImportCSV(testCtx(), ev.ID, strings.NewReader("name,place_name\nA,B"))
	assert.Error(t, err)
}
