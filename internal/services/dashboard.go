package services

// 看板服务：面向组织者的活动全景视图。
// 每日明细列出全部成员（含 waiting/cancelled）；统计口径上除总量外，
// 人群画像仅计入"全员在场"的报名组 ——
// 组内所有成员状态均为 registered 或 confirmed。
// 结果经 Redis 读穿缓存，写操作后由 handler 主动失效。

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/metrics"
	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// DashboardService 聚合活动看板并维护其缓存。
type DashboardService struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *DashboardService {
	return &DashboardService{db: db, rdb: rdb, ttl: ttl}
}

// DashboardMember 为看板明细中某成员在某活动日的条目。
type DashboardMember struct {
	MemberID         string `json:"member_id"`
	Name             string `json:"name"`
	PhoneNumber      string `json:"phone_number"`
	Gender           string `json:"gender"`
	Age              int    `json:"age"`
	City             string `json:"city"`
	Status           string `json:"status"`
	RegistrationID   uint64 `json:"registration_id"`
	RegistrationType string `json:"registration_type"`
	StayingWithGroup bool   `json:"staying_with_group"`
	DinnerAtHost     bool   `json:"dinner_at_host"`
	BreakfastAtHost  bool   `json:"breakfast_at_host"`
	LunchWithGroup   bool   `json:"lunch_with_group"`
	ToiletPreference string `json:"toilet_preference"`
	HostID           string `json:"host_id,omitempty"`
	HostName         string `json:"host_name,omitempty"`
	PlaceName        string `json:"place_name,omitempty"`
}

// DashboardDay 为某活动日的聚合：人数口径与成员明细。
type DashboardDay struct {
	EventDayID     string            `json:"event_day_id"`
	EventDate      time.Time         `json:"event_date"`
	LocationName   string            `json:"location_name"`
	StayingCount   int               `json:"staying_count"`
	BreakfastCount int               `json:"breakfast_count"`
	LunchCount     int               `json:"lunch_count"`
	DinnerCount    int               `json:"dinner_count"`
	ToiletIndian   int               `json:"toilet_indian"`
	ToiletWestern  int               `json:"toilet_western"`
	Members        []DashboardMember `json:"members"`
}

// DashboardSummary 为活动级汇总。总量不设口径限制；
// 其余画像仅统计全员在场的报名组。
type DashboardSummary struct {
	TotalRegistrations     int64          `json:"total_registrations"`
	TotalMembers           int64          `json:"total_members"`
	StatusCounts           map[string]int `json:"status_counts"`
	FullyAttendingGroups   int            `json:"fully_attending_groups"`
	FullyAttendingMembers  int            `json:"fully_attending_members"`
	GenderCounts           map[string]int `json:"gender_counts"`
	AgeBuckets             map[string]int `json:"age_buckets"`
	CityCounts             map[string]int `json:"city_counts"`
	ToiletCounts           map[string]int `json:"toilet_counts"`
	TransportCounts        map[string]int `json:"transport_counts"`
	RegistrationTypeCounts map[string]int `json:"registration_type_counts"`
	GroupsWithEmptySeats   int            `json:"groups_with_empty_seats"`
	TotalEmptySeats        int            `json:"total_empty_seats"`
}

// Dashboard 为完整的看板响应。
type Dashboard struct {
	Event       storage.Event    `json:"event"`
	Days        []DashboardDay   `json:"days"`
	Summary     DashboardSummary `json:"summary"`
	GeneratedAt time.Time        `json:"generated_at"`
}

func dashboardKey(eventID string) string { return "dashboard:" + eventID }

// Get 返回活动看板，优先命中 Redis 缓存。
func (s *DashboardService) Get(ctx context.Context, eventID string) (*Dashboard, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, dashboardKey(eventID)).Result()
		if err == nil {
			var d Dashboard
			if jsonErr := json.Unmarshal([]byte(raw), &d); jsonErr == nil {
				metrics.DashboardCache.WithLabelValues("hit").Inc()
				return &d, nil
			}
		} else if err != redis.Nil {
			log.WithError(err).Warn("dashboard cache read failed")
		}
	}
	metrics.DashboardCache.WithLabelValues("miss").Inc()

	d, err := s.build(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if s.rdb != nil {
		if raw, err := json.Marshal(d); err == nil {
			if err := s.rdb.Set(ctx, dashboardKey(eventID), raw, s.ttl).Err(); err != nil {
				log.WithError(err).Warn("dashboard cache write failed")
			}
		}
	}
	return d, nil
}

// Invalidate 失效某活动的看板缓存（写操作之后调用）。
func (s *DashboardService) Invalidate(ctx context.Context, eventID string) {
	if s.rdb == nil || eventID == "" {
		return
	}
	if err := s.rdb.Del(ctx, dashboardKey(eventID)).Err(); err != nil {
		log.WithError(err).Warn("dashboard cache invalidate failed")
	}
}

// InvalidateForRegistration 按报名回查活动后失效缓存。
func (s *DashboardService) InvalidateForRegistration(ctx context.Context, registrationID uint64) {
	var reg storage.Registration
	if err := s.db.WithContext(ctx).Select("event_id").Where("id = ?", registrationID).First(&reg).Error; err != nil {
		return
	}
	s.Invalidate(ctx, reg.EventID)
}

func ageBucket(age int) string {
	switch {
	case age <= 18:
		return "0-18"
	case age <= 30:
		return "19-30"
	case age <= 50:
		return "31-50"
	default:
		return "51+"
	}
}

func isAttending(status string) bool {
	return status == storage.StatusRegistered || status == storage.StatusConfirmed
}

// fullyAttending 判断报名组是否全员在场（空组不计）。
func fullyAttending(reg storage.Registration) bool {
	if len(reg.Members) == 0 {
		return false
	}
	for _, m := range reg.Members {
		if !isAttending(m.Status) {
			return false
		}
	}
	return true
}

// defaultPreference 为未声明某日偏好的报名给出默认口径：随团住宿与用餐。
func defaultPreference() storage.DailyPreference {
	return storage.DailyPreference{
		StayingWithGroup: true,
		DinnerAtHost:     true,
		BreakfastAtHost:  true,
		LunchWithGroup:   true,
		ToiletPreference: storage.ToiletIndian,
	}
}

// build 从数据库聚合看板；聚合本身为纯内存计算。
func (s *DashboardService) build(ctx context.Context, eventID string) (*Dashboard, error) {
	var ev storage.Event
	err := s.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("event_date asc") }).
		Where("id = ?", eventID).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	var regs []storage.Registration
	if err := s.db.WithContext(ctx).
		Preload("Members").
		Preload("DailyPreferences").
		Where("event_id = ?", eventID).
		Find(&regs).Error; err != nil {
		return nil, err
	}

	var assigns []storage.HostAssignment
	if err := s.db.WithContext(ctx).
		Joins("JOIN hosts ON hosts.id = host_assignments.host_id").
		Where("hosts.event_id = ?", eventID).
		Find(&assigns).Error; err != nil {
		return nil, err
	}
	var hosts []storage.Host
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&hosts).Error; err != nil {
		return nil, err
	}
	hostByID := make(map[string]storage.Host, len(hosts))
	for _, h := range hosts {
		hostByID[h.ID] = h
	}
	// (member, day) -> assignment
	assignByMemberDay := make(map[string]storage.HostAssignment, len(assigns))
	for _, a := range assigns {
		assignByMemberDay[a.RegistrationMemberID+"|"+a.EventDayID] = a
	}

	d := &Dashboard{Event: ev, Days: make([]DashboardDay, 0, len(ev.Days)), GeneratedAt: time.Now()}

	summary := DashboardSummary{
		TotalRegistrations:     int64(len(regs)),
		StatusCounts:           map[string]int{},
		GenderCounts:           map[string]int{},
		AgeBuckets:             map[string]int{},
		CityCounts:             map[string]int{},
		ToiletCounts:           map[string]int{},
		TransportCounts:        map[string]int{},
		RegistrationTypeCounts: map[string]int{},
	}
	for _, reg := range regs {
		summary.TotalMembers += int64(len(reg.Members))
		for _, m := range reg.Members {
			summary.StatusCounts[m.Status]++
		}
		if !fullyAttending(reg) {
			continue
		}
		summary.FullyAttendingGroups++
		summary.FullyAttendingMembers += len(reg.Members)
		summary.RegistrationTypeCounts[reg.RegistrationType]++
		summary.TransportCounts[reg.TransportationMode]++
		if reg.TransportationMode == storage.TransportPrivate && reg.HasEmptySeats {
			summary.GroupsWithEmptySeats++
			summary.TotalEmptySeats += reg.AvailableSeatsCount
		}
		for _, m := range reg.Members {
			if m.Gender == storage.GenderMale || m.Gender == storage.GenderFemale {
				summary.GenderCounts[m.Gender]++
			}
			summary.AgeBuckets[ageBucket(m.Age)]++
			if m.City != "" {
				summary.CityCounts[m.City]++
			}
		}
	}

	// 汇总卫生间偏好按成员去重：以该成员首个活动日的偏好计一次。
	toiletSeen := make(map[string]bool)
	for _, day := range ev.Days {
		dd := DashboardDay{
			EventDayID:   day.ID,
			EventDate:    day.EventDate,
			LocationName: day.LocationName,
			Members:      []DashboardMember{},
		}
		for _, reg := range regs {
			attending := fullyAttending(reg)
			pref := defaultPreference()
			for _, p := range reg.DailyPreferences {
				if p.EventDayID == day.ID {
					pref = p
					break
				}
			}
			for _, m := range reg.Members {
				entry := DashboardMember{
					MemberID:         m.ID,
					Name:             m.Name,
					PhoneNumber:      m.PhoneNumber,
					Gender:           m.Gender,
					Age:              m.Age,
					City:             m.City,
					Status:           m.Status,
					RegistrationID:   reg.ID,
					RegistrationType: reg.RegistrationType,
					StayingWithGroup: pref.StayingWithGroup,
					DinnerAtHost:     pref.DinnerAtHost,
					BreakfastAtHost:  pref.BreakfastAtHost,
					LunchWithGroup:   pref.LunchWithGroup,
					ToiletPreference: pref.ToiletPreference,
				}
				if a, ok := assignByMemberDay[m.ID+"|"+day.ID]; ok {
					if h, ok := hostByID[a.HostID]; ok {
						entry.HostID = h.ID
						entry.HostName = h.Name
						entry.PlaceName = h.PlaceName
					}
				}
				dd.Members = append(dd.Members, entry)

				// 明细列出所有成员；计数仅计入全员在场的报名组。
				if !attending {
					continue
				}
				switch pref.ToiletPreference {
				case storage.ToiletWestern:
					dd.ToiletWestern++
				default:
					dd.ToiletIndian++
				}
				if !toiletSeen[m.ID] {
					toiletSeen[m.ID] = true
					if pref.ToiletPreference == storage.ToiletWestern {
						summary.ToiletCounts[storage.ToiletWestern]++
					} else {
						summary.ToiletCounts[storage.ToiletIndian]++
					}
				}
				if pref.StayingWithGroup {
					dd.StayingCount++
				}
				if pref.BreakfastAtHost {
					dd.BreakfastCount++
				}
				if pref.LunchWithGroup {
					dd.LunchCount++
				}
				if pref.DinnerAtHost {
					dd.DinnerCount++
				}
			}
		}
		d.Days = append(d.Days, dd)
	}
	d.Summary = summary
	return d, nil
}
