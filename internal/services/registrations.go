package services

// 报名服务：报名创建、查询与参与者检索。
// 当活动设置了人数上限时，超出水位的新成员整体进入候补（waiting）。

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/metrics"
	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// RegistrationService 管理报名、成员与每日偏好。
type RegistrationService struct{ db *gorm.DB }

func NewRegistrationService(db *gorm.DB) *RegistrationService { return &RegistrationService{db: db} }

// MemberInput 为报名时的单个参与者信息。
type MemberInput struct {
	PhoneNumber         string `json:"phone_number"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	City                string `json:"city"`
	Age                 int    `json:"age"`
	Gender              string `json:"gender"`
	Language            string `json:"language"`
	FloorPreference     string `json:"floor_preference"`
	SpecialRequirements string `json:"special_requirements"`
}

// PreferenceInput 为报名时对某活动日的偏好声明。
type PreferenceInput struct {
	EventDayID          string `json:"event_day_id"`
	StayingWithGroup    bool   `json:"staying_with_group"`
	DinnerAtHost        bool   `json:"dinner_at_host"`
	BreakfastAtHost     bool   `json:"breakfast_at_host"`
	LunchWithGroup      bool   `json:"lunch_with_group"`
	PhysicalLimitations string `json:"physical_limitations"`
	ToiletPreference    string `json:"toilet_preference"`
}

// CreateRegistrationInput 为创建报名的完整入参。
type CreateRegistrationInput struct {
	EventID             string            `json:"event_id"`
	RegistrationType    string            `json:"registration_type"`
	NumberOfMembers     int               `json:"number_of_members"`
	TransportationMode  string            `json:"transportation_mode"`
	HasEmptySeats       bool              `json:"has_empty_seats"`
	AvailableSeatsCount int               `json:"available_seats_count"`
	Notes               string            `json:"notes"`
	Members             []MemberInput     `json:"members"`
	DailyPreferences    []PreferenceInput `json:"daily_preferences"`
}

// attendingCount 统计某活动当前占用名额的成员数（registered/confirmed）。
func (s *RegistrationService) attendingCount(tx *gorm.DB, eventID string) (int64, error) {
	var cnt int64
	err := tx.Model(&storage.RegistrationMember{}).
		Joins("JOIN registrations ON registrations.id = registration_members.registration_id").
		Where("registrations.event_id = ?", eventID).
		Where("registration_members.status IN ?", []string{storage.StatusRegistered, storage.StatusConfirmed}).
		Count(&cnt).Error
	return cnt, err
}

// Create 创建报名及其成员、每日偏好，整体在事务内完成。
// 名额上限逐人判定：前面挤得进名额的成员 registered，
// 溢出的后续成员以 waiting 状态落库（同组可能被拆到两种状态）。
func (s *RegistrationService) Create(ctx context.Context, in CreateRegistrationInput) (*storage.Registration, error) {
	if in.RegistrationType == storage.RegistrationIndividual && len(in.Members) != 1 {
		return nil, ErrIndividualMembers
	}
	if in.NumberOfMembers != len(in.Members) {
		return nil, ErrMemberCountMismatch
	}

	var ev storage.Event
	if err := s.db.WithContext(ctx).Where("id = ?", in.EventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	reg := &storage.Registration{
		EventID:             in.EventID,
		RegistrationType:    in.RegistrationType,
		NumberOfMembers:     in.NumberOfMembers,
		TransportationMode:  in.TransportationMode,
		HasEmptySeats:       in.HasEmptySeats,
		AvailableSeatsCount: in.AvailableSeatsCount,
		Notes:               in.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attending int64
		if ev.AllowedRegistration > 0 {
			var err error
			attending, err = s.attendingCount(tx, in.EventID)
			if err != nil {
				return err
			}
		}
		if err := tx.Create(reg).Error; err != nil {
			return err
		}
		for i, m := range in.Members {
			status := storage.StatusRegistered
			if ev.AllowedRegistration > 0 && attending+int64(i)+1 > int64(ev.AllowedRegistration) {
				status = storage.StatusWaiting
			}
			member := &storage.RegistrationMember{
				ID:                  uuid.NewString(),
				RegistrationID:      reg.ID,
				PhoneNumber:         m.PhoneNumber,
				Name:                m.Name,
				Email:               m.Email,
				City:                m.City,
				Age:                 m.Age,
				Gender:              m.Gender,
				Language:            m.Language,
				FloorPreference:     m.FloorPreference,
				SpecialRequirements: m.SpecialRequirements,
				Status:              status,
			}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
			if status == storage.StatusWaiting {
				metrics.MembersWaitlisted.Inc()
			}
		}
		for _, p := range in.DailyPreferences {
			pref := &storage.DailyPreference{
				ID:                  uuid.NewString(),
				EventDayID:          p.EventDayID,
				RegistrationID:      reg.ID,
				StayingWithGroup:    p.StayingWithGroup,
				DinnerAtHost:        p.DinnerAtHost,
				BreakfastAtHost:     p.BreakfastAtHost,
				LunchWithGroup:      p.LunchWithGroup,
				PhysicalLimitations: p.PhysicalLimitations,
				ToiletPreference:    p.ToiletPreference,
			}
			if err := tx.Create(pref).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RegistrationsCreated.Inc()
	return s.Get(ctx, reg.ID)
}

// Get 按 ID 返回报名（含成员与每日偏好）。
func (s *RegistrationService) Get(ctx context.Context, id uint64) (*storage.Registration, error) {
	var reg storage.Registration
	err := s.db.WithContext(ctx).
		Preload("Members").
		Preload("DailyPreferences").
		Where("id = ?", id).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// List 分页返回某活动下的全部报名。
func (s *RegistrationService) List(ctx context.Context, eventID string, skip, limit int) ([]storage.Registration, int64, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	q := s.db.WithContext(ctx).Model(&storage.Registration{}).Where("event_id = ?", eventID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var regs []storage.Registration
	err := s.db.WithContext(ctx).
		Preload("Members").
		Preload("DailyPreferences").
		Where("event_id = ?", eventID).
		Order("id asc").
		Offset(skip).Limit(limit).
		Find(&regs).Error
	return regs, total, err
}

// MemberHostInfo 为检索结果中某成员某天的住宿家庭信息。
type MemberHostInfo struct {
	EventDayID      string    `json:"event_day_id"`
	EventDate       time.Time `json:"event_date"`
	HostID          string    `json:"host_id"`
	HostName        string    `json:"host_name"`
	HostPhone       int64     `json:"host_phone"`
	PlaceName       string    `json:"place_name"`
	AssignmentNotes string    `json:"assignment_notes"`
}

// SearchMember 为检索结果中的成员条目，附带住宿分配。
type SearchMember struct {
	storage.RegistrationMember
	HostAssignments []MemberHostInfo `json:"host_assignments"`
}

// ScheduleEntry 为检索结果中的某日安排（活动日 + 报名偏好）。
type ScheduleEntry struct {
	EventDayID        string    `json:"event_day_id"`
	EventDate         time.Time `json:"event_date"`
	LocationName      string    `json:"location_name"`
	BreakfastProvided bool      `json:"breakfast_provided"`
	LunchProvided     bool      `json:"lunch_provided"`
	DinnerProvided    bool      `json:"dinner_provided"`
	StayingWithGroup  bool      `json:"staying_with_group"`
	DinnerAtHost      bool      `json:"dinner_at_host"`
	BreakfastAtHost   bool      `json:"breakfast_at_host"`
	LunchWithGroup    bool      `json:"lunch_with_group"`
	ToiletPreference  string    `json:"toilet_preference"`
}

// ParticipantSearch 为按手机号检索的聚合结果。
type ParticipantSearch struct {
	RegistrationID      uint64          `json:"registration_id"`
	EventID             string          `json:"event_id"`
	RegistrationType    string          `json:"registration_type"`
	NumberOfMembers     int             `json:"number_of_members"`
	TransportationMode  string          `json:"transportation_mode"`
	HasEmptySeats       bool            `json:"has_empty_seats"`
	AvailableSeatsCount int             `json:"available_seats_count"`
	Notes               string          `json:"notes"`
	Members             []SearchMember  `json:"members"`
	DailySchedule       []ScheduleEntry `json:"daily_schedule"`
}

// SearchByPhone 按参与者手机号检索其所在报名（限定活动内）。
// 返回同组全部成员、各自的住宿分配（仅 registered/confirmed 成员），
// 以及按日期排列的行程安排。
func (s *RegistrationService) SearchByPhone(ctx context.Context, eventID, phone string) (*ParticipantSearch, error) {
	var member storage.RegistrationMember
	err := s.db.WithContext(ctx).
		Joins("JOIN registrations ON registrations.id = registration_members.registration_id").
		Where("registrations.event_id = ?", eventID).
		Where("registration_members.phone_number = ?", phone).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	reg, err := s.Get(ctx, member.RegistrationID)
	if err != nil {
		return nil, err
	}

	var days []storage.EventDay
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("event_date asc").Find(&days).Error; err != nil {
		return nil, err
	}
	dayByID := make(map[string]storage.EventDay, len(days))
	for _, d := range days {
		dayByID[d.ID] = d
	}

	out := &ParticipantSearch{
		RegistrationID:      reg.ID,
		EventID:             reg.EventID,
		RegistrationType:    reg.RegistrationType,
		NumberOfMembers:     reg.NumberOfMembers,
		TransportationMode:  reg.TransportationMode,
		HasEmptySeats:       reg.HasEmptySeats,
		AvailableSeatsCount: reg.AvailableSeatsCount,
		Notes:               reg.Notes,
		Members:             make([]SearchMember, 0, len(reg.Members)),
		DailySchedule:       make([]ScheduleEntry, 0, len(reg.DailyPreferences)),
	}

	for _, m := range reg.Members {
		sm := SearchMember{RegistrationMember: m, HostAssignments: []MemberHostInfo{}}
		if m.Status == storage.StatusRegistered || m.Status == storage.StatusConfirmed {
			var assigns []storage.HostAssignment
			if err := s.db.WithContext(ctx).Where("registration_member_id = ?", m.ID).Find(&assigns).Error; err != nil {
				return nil, err
			}
			for _, a := range assigns {
				var h storage.Host
				if err := s.db.WithContext(ctx).Where("id = ?", a.HostID).First(&h).Error; err != nil {
					continue
				}
				info := MemberHostInfo{
					EventDayID:      a.EventDayID,
					HostID:          h.ID,
					HostName:        h.Name,
					HostPhone:       h.PhoneNo,
					PlaceName:       h.PlaceName,
					AssignmentNotes: a.AssignmentNotes,
				}
				if d, ok := dayByID[a.EventDayID]; ok {
					info.EventDate = d.EventDate
				}
				sm.HostAssignments = append(sm.HostAssignments, info)
			}
		}
		out.Members = append(out.Members, sm)
	}

	prefByDay := make(map[string]storage.DailyPreference, len(reg.DailyPreferences))
	for _, p := range reg.DailyPreferences {
		prefByDay[p.EventDayID] = p
	}
	for _, d := range days {
		entry := ScheduleEntry{
			EventDayID:        d.ID,
			EventDate:         d.EventDate,
			LocationName:      d.LocationName,
			BreakfastProvided: d.BreakfastProvided,
			LunchProvided:     d.LunchProvided,
			DinnerProvided:    d.DinnerProvided,
			// 未声明偏好按默认值处理：随团住宿与用餐。
			StayingWithGroup: true,
			DinnerAtHost:     true,
			BreakfastAtHost:  true,
			LunchWithGroup:   true,
			ToiletPreference: storage.ToiletIndian,
		}
		if p, ok := prefByDay[d.ID]; ok {
			entry.StayingWithGroup = p.StayingWithGroup
			entry.DinnerAtHost = p.DinnerAtHost
			entry.BreakfastAtHost = p.BreakfastAtHost
			entry.LunchWithGroup = p.LunchWithGroup
			entry.ToiletPreference = p.ToiletPreference
		}
		out.DailySchedule = append(out.DailySchedule, entry)
	}
	return out, nil
}
