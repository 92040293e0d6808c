package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// newTestDB 打开一个仅本测试可见的内存 SQLite 并完成建表。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, storage.AutoMigrate(db))
	return db
}

// seedEvent 建一个带 days 个活动日的活动，allowed 为人数上限（0 不限）。
func seedEvent(t *testing.T, db *gorm.DB, days, allowed int) *storage.Event {
	t.Helper()
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	ev := &storage.Event{
		ID:                  uuid.NewString(),
		EventName:           "Winter Padyatra",
		StartDate:           start,
		EndDate:             start.AddDate(0, 0, days-1),
		LocationName:        "Dandi",
		IsActive:            true,
		AllowedRegistration: allowed,
	}
	require.NoError(t, db.Create(ev).Error)
	for i := 0; i < days; i++ {
		day := &storage.EventDay{
			ID:                uuid.NewString(),
			EventID:           ev.ID,
			EventDate:         start.AddDate(0, 0, i),
			BreakfastProvided: true,
			LunchProvided:     true,
			DinnerProvided:    true,
			LocationName:      fmt.Sprintf("Village %d", i+1),
		}
		require.NoError(t, db.Create(day).Error)
	}
	require.NoError(t, db.
		Preload("Days", func(q *gorm.DB) *gorm.DB { return q.Order("event_date asc") }).
		First(ev, "id = ?", ev.ID).Error)
	return ev
}

// seedRegistration 建一个 n 人报名组，成员状态为 status。
func seedRegistration(t *testing.T, db *gorm.DB, eventID string, n int, status string) *storage.Registration {
	t.Helper()
	reg := &storage.Registration{
		EventID:            eventID,
		RegistrationType:   storage.RegistrationGroup,
		NumberOfMembers:    n,
		TransportationMode: storage.TransportPublic,
	}
	if n == 1 {
		reg.RegistrationType = storage.RegistrationIndividual
	}
	require.NoError(t, db.Create(reg).Error)
	for i := 0; i < n; i++ {
		m := &storage.RegistrationMember{
			ID:             uuid.NewString(),
			RegistrationID: reg.ID,
			PhoneNumber:    fmt.Sprintf("98%08d", reg.ID*100+uint64(i)),
			Name:           fmt.Sprintf("Member %d-%d", reg.ID, i),
			City:           "Surat",
			Age:            25 + i,
			Gender:         "M",
			Status:         status,
		}
		require.NoError(t, db.Create(m).Error)
	}
	require.NoError(t, db.Preload("Members").First(reg, "id = ?", reg.ID).Error)
	return reg
}

var hostPhoneSeq int64

func seedHost(t *testing.T, db *gorm.DB, eventID, dayID string, capacity int) *storage.Host {
	t.Helper()
	hostPhoneSeq++
	h := &storage.Host{
		ID:               uuid.NewString(),
		EventID:          eventID,
		EventDayID:       dayID,
		Name:             "Patel Family",
		PhoneNo:          9800000000 + hostPhoneSeq,
		PlaceName:        "Main Street",
		MaxParticipants:  capacity,
		ToiletFacilities: storage.ToiletBoth,
		GenderPreference: storage.GenderPrefBoth,
	}
	require.NoError(t, db.Create(h).Error)
	return h
}

func testCtx() context.Context { return context.Background() }
