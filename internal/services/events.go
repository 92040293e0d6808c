package services

// 活动服务：活动与活动日的创建、查询。

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// EventService 管理活动主记录及其下属活动日。
type EventService struct{ db *gorm.DB }

func NewEventService(db *gorm.DB) *EventService { return &EventService{db: db} }

// EventDayInput 为创建活动时的单日描述。
type EventDayInput struct {
	EventDate         time.Time `json:"event_date"`
	BreakfastProvided bool      `json:"breakfast_provided"`
	LunchProvided     bool      `json:"lunch_provided"`
	DinnerProvided    bool      `json:"dinner_provided"`
	LocationName      string    `json:"location_name"`
	DailyNotes        string    `json:"daily_notes"`
}

// CreateEventInput 为创建活动的完整入参，days 至少一项。
type CreateEventInput struct {
	EventName             string          `json:"event_name"`
	StartDate             time.Time       `json:"start_date"`
	EndDate               time.Time       `json:"end_date"`
	LocationName          string          `json:"location_name"`
	LocationMapLink       string          `json:"location_map_link"`
	Description           string          `json:"description"`
	NGO                   string          `json:"ngo"`
	IsActive              bool            `json:"is_active"`
	AllowedRegistration   int             `json:"allowed_registration"`
	RegistrationStartDate *time.Time      `json:"registration_start_date"`
	Days                  []EventDayInput `json:"event_days"`
}

// Create 在单个事务中写入活动与全部活动日，返回带天列表的活动。
func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*storage.Event, error) {
	ev := &storage.Event{
		ID:                    uuid.NewString(),
		EventName:             in.EventName,
		StartDate:             in.StartDate,
		EndDate:               in.EndDate,
		LocationName:          in.LocationName,
		LocationMapLink:       in.LocationMapLink,
		Description:           in.Description,
		NGO:                   in.NGO,
		IsActive:              in.IsActive,
		AllowedRegistration:   in.AllowedRegistration,
		RegistrationStartDate: in.RegistrationStartDate,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		for _, d := range in.Days {
			day := &storage.EventDay{
				ID:                uuid.NewString(),
				EventID:           ev.ID,
				EventDate:         d.EventDate,
				BreakfastProvided: d.BreakfastProvided,
				LunchProvided:     d.LunchProvided,
				DinnerProvided:    d.DinnerProvided,
				LocationName:      d.LocationName,
				DailyNotes:        d.DailyNotes,
			}
			if err := tx.Create(day).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, ev.ID)
}

// List 返回全部活动，活动日按日期升序附带。
func (s *EventService) List(ctx context.Context) ([]storage.Event, error) {
	var evs []storage.Event
	err := s.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("event_date asc") }).
		Order("start_date desc").
		Find(&evs).Error
	return evs, err
}

// Get 按 ID 返回单个活动（含活动日）。
func (s *EventService) Get(ctx context.Context, id string) (*storage.Event, error) {
	var ev storage.Event
	err := s.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("event_date asc") }).
		Where("id = ?", id).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}
