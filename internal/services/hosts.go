package services

// 住宿家庭服务：家庭档案 CRUD、分页筛选、按天分组与 CSV 批量导入。

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// HostService 管理住宿家庭档案。
type HostService struct{ db *gorm.DB }

func NewHostService(db *gorm.DB) *HostService { return &HostService{db: db} }

// CreateHostInput 为创建住宿家庭的入参。
type CreateHostInput struct {
	EventID               string `json:"event_id"`
	EventDayID            string `json:"event_day_id"`
	Name                  string `json:"name"`
	PhoneNo               int64  `json:"phone_no"`
	PlaceName             string `json:"place_name"`
	MaxParticipants       int    `json:"max_participants"`
	ToiletFacilities      string `json:"toilet_facilities"`
	GenderPreference      string `json:"gender_preference"`
	FacilitiesDescription string `json:"facilities_description"`
}

// Create 创建住宿家庭，同一活动日内手机号唯一。
func (s *HostService) Create(ctx context.Context, in CreateHostInput) (*storage.Host, error) {
	var day storage.EventDay
	if err := s.db.WithContext(ctx).Where("id = ?", in.EventDayID).First(&day).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventDayNotFound
		}
		return nil, err
	}
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&storage.Host{}).
		Where("event_day_id = ? AND phone_no = ?", in.EventDayID, in.PhoneNo).
		Count(&cnt).Error; err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrHostPhoneTaken
	}
	h := &storage.Host{
		ID:                    uuid.NewString(),
		EventID:               in.EventID,
		EventDayID:            in.EventDayID,
		Name:                  in.Name,
		PhoneNo:               in.PhoneNo,
		PlaceName:             in.PlaceName,
		MaxParticipants:       in.MaxParticipants,
		ToiletFacilities:      in.ToiletFacilities,
		GenderPreference:      in.GenderPreference,
		FacilitiesDescription: in.FacilitiesDescription,
	}
	if err := s.db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

// ParticipantSummary 为家庭详情里的已分配成员摘要。
type ParticipantSummary struct {
	MemberID        string `json:"member_id"`
	Name            string `json:"name"`
	PhoneNumber     string `json:"phone_number"`
	Gender          string `json:"gender"`
	Age             int    `json:"age"`
	Status          string `json:"status"`
	AssignmentID    string `json:"assignment_id"`
	AssignmentNotes string `json:"assignment_notes"`
}

// HostDetail 为单个家庭的完整视图，含当前入住与剩余床位。
type HostDetail struct {
	storage.Host
	EventDate            time.Time            `json:"event_date"`
	AssignedParticipants []ParticipantSummary `json:"assigned_participants"`
	CurrentCapacity      int                  `json:"current_capacity"`
	AvailableCapacity    int                  `json:"available_capacity"`
}

// Get 返回家庭详情，附带已分配成员列表与容量信息。
func (s *HostService) Get(ctx context.Context, id string) (*HostDetail, error) {
	var h storage.Host
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHostNotFound
		}
		return nil, err
	}
	detail := &HostDetail{Host: h, AssignedParticipants: []ParticipantSummary{}}
	var day storage.EventDay
	if err := s.db.WithContext(ctx).Where("id = ?", h.EventDayID).First(&day).Error; err == nil {
		detail.EventDate = day.EventDate
	}
	var assigns []storage.HostAssignment
	if err := s.db.WithContext(ctx).Where("host_id = ?", h.ID).Find(&assigns).Error; err != nil {
		return nil, err
	}
	for _, a := range assigns {
		var m storage.RegistrationMember
		if err := s.db.WithContext(ctx).Where("id = ?", a.RegistrationMemberID).First(&m).Error; err != nil {
			continue
		}
		detail.AssignedParticipants = append(detail.AssignedParticipants, ParticipantSummary{
			MemberID:        m.ID,
			Name:            m.Name,
			PhoneNumber:     m.PhoneNumber,
			Gender:          m.Gender,
			Age:             m.Age,
			Status:          m.Status,
			AssignmentID:    a.ID,
			AssignmentNotes: a.AssignmentNotes,
		})
	}
	detail.CurrentCapacity = len(assigns)
	detail.AvailableCapacity = h.MaxParticipants - len(assigns)
	if detail.AvailableCapacity < 0 {
		detail.AvailableCapacity = 0
	}
	return detail, nil
}

// HostFilter 为家庭列表的可选过滤条件。
type HostFilter struct {
	EventID          string
	EventDayID       string
	ToiletFacilities string
	GenderPreference string
	Search           string // 按姓名/地点模糊匹配
	Page             int
	PageSize         int
}

// HostPage 为家庭分页结果。
type HostPage struct {
	Hosts      []storage.Host `json:"hosts"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// ListFiltered 按条件分页列出家庭。
func (s *HostService) ListFiltered(ctx context.Context, f HostFilter) (*HostPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	q := s.db.WithContext(ctx).Model(&storage.Host{})
	if f.EventID != "" {
		q = q.Where("event_id = ?", f.EventID)
	}
	if f.EventDayID != "" {
		q = q.Where("event_day_id = ?", f.EventDayID)
	}
	if f.ToiletFacilities != "" {
		q = q.Where("toilet_facilities = ?", f.ToiletFacilities)
	}
	if f.GenderPreference != "" {
		q = q.Where("gender_preference = ?", f.GenderPreference)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR place_name LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var hosts []storage.Host
	err := q.Order("created_at asc").
		Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).
		Find(&hosts).Error
	if err != nil {
		return nil, err
	}
	pages := int((total + int64(f.PageSize) - 1) / int64(f.PageSize))
	return &HostPage{Hosts: hosts, Total: total, Page: f.Page, PageSize: f.PageSize, TotalPages: pages}, nil
}

// DayHosts 为某活动日的家庭清单。
type DayHosts struct {
	EventDayID string         `json:"event_day_id"`
	EventDate  time.Time      `json:"event_date"`
	Hosts      []storage.Host `json:"hosts"`
}

// GroupedByDay 按活动日分组返回某活动的全部家庭。
func (s *HostService) GroupedByDay(ctx context.Context, eventID string) ([]DayHosts, error) {
	var days []storage.EventDay
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("event_date asc").Find(&days).Error; err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrEventNotFound
	}
	out := make([]DayHosts, 0, len(days))
	for _, d := range days {
		var hosts []storage.Host
		if err := s.db.WithContext(ctx).Where("event_day_id = ?", d.ID).Order("created_at asc").Find(&hosts).Error; err != nil {
			return nil, err
		}
		out = append(out, DayHosts{EventDayID: d.ID, EventDate: d.EventDate, Hosts: hosts})
	}
	return out, nil
}

// HostUpdateInput 的字段均为指针，nil 表示不修改。
type HostUpdateInput struct {
	Name                  *string `json:"name"`
	PhoneNo               *int64  `json:"phone_no"`
	PlaceName             *string `json:"place_name"`
	MaxParticipants       *int    `json:"max_participants"`
	ToiletFacilities      *string `json:"toilet_facilities"`
	GenderPreference      *string `json:"gender_preference"`
	FacilitiesDescription *string `json:"facilities_description"`
}

// Update 更新家庭档案；若修改手机号需保持同日唯一。
func (s *HostService) Update(ctx context.Context, id string, in HostUpdateInput) (*storage.Host, error) {
	var h storage.Host
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHostNotFound
		}
		return nil, err
	}
	if in.PhoneNo != nil && *in.PhoneNo != h.PhoneNo {
		var cnt int64
		if err := s.db.WithContext(ctx).Model(&storage.Host{}).
			Where("event_day_id = ? AND phone_no = ? AND id <> ?", h.EventDayID, *in.PhoneNo, h.ID).
			Count(&cnt).Error; err != nil {
			return nil, err
		}
		if cnt > 0 {
			return nil, ErrHostPhoneTaken
		}
		h.PhoneNo = *in.PhoneNo
	}
	if in.Name != nil {
		h.Name = *in.Name
	}
	if in.PlaceName != nil {
		h.PlaceName = *in.PlaceName
	}
	if in.MaxParticipants != nil {
		h.MaxParticipants = *in.MaxParticipants
	}
	if in.ToiletFacilities != nil {
		h.ToiletFacilities = *in.ToiletFacilities
	}
	if in.GenderPreference != nil {
		h.GenderPreference = *in.GenderPreference
	}
	if in.FacilitiesDescription != nil {
		h.FacilitiesDescription = *in.FacilitiesDescription
	}
	if err := s.db.WithContext(ctx).Save(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// Delete 删除家庭；仍有住宿分配时拒绝。
func (s *HostService) Delete(ctx context.Context, id string) error {
	var h storage.Host
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHostNotFound
		}
		return err
	}
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&storage.HostAssignment{}).Where("host_id = ?", id).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return ErrHostHasAssignments
	}
	return s.db.WithContext(ctx).Delete(&h).Error
}

// CSVImportResult 汇总一次 CSV 导入的逐行结果。
type CSVImportResult struct {
	TotalRows int            `json:"total_rows"`
	Imported  int            `json:"imported"`
	Failed    int            `json:"failed"`
	Errors    []CSVRowError  `json:"errors"`
	Hosts     []storage.Host `json:"hosts"`
}

// CSVRowError 为导入失败行的行号与原因。
type CSVRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportCSV 从 CSV 批量导入某活动的住宿家庭。
// 每行按 event_date 匹配活动日；坏行跳过并记录原因，好行照常入库。
func (s *HostService) ImportCSV(ctx context.Context, eventID string, r io.Reader) (*CSVImportResult, error) {
	var days []storage.EventDay
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&days).Error; err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrEventNotFound
	}
	dayByDate := make(map[string]storage.EventDay, len(days))
	for _, d := range days {
		dayByDate[d.EventDate.Format("2006-01-02")] = d
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "phone_no", "max_participants", "event_date"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("csv missing required column %q", required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	res := &CSVImportResult{Errors: []CSVRowError{}, Hosts: []storage.Host{}}
	row := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			res.TotalRows++
			res.Failed++
			res.Errors = append(res.Errors, CSVRowError{Row: row, Reason: "malformed row"})
			continue
		}
		res.TotalRows++

		reason := ""
		phone, perr := strconv.ParseInt(field(rec, "phone_no"), 10, 64)
		maxP, merr := strconv.Atoi(field(rec, "max_participants"))
		day, dayOK := dayByDate[field(rec, "event_date")]
		switch {
		case field(rec, "name") == "":
			reason = "name required"
		case perr != nil:
			reason = "invalid phone_no"
		case merr != nil || maxP <= 0:
			reason = "invalid max_participants"
		case !dayOK:
			reason = "event_date does not match any event day"
		}
		if reason == "" {
			var cnt int64
			if err := s.db.WithContext(ctx).Model(&storage.Host{}).
				Where("event_day_id = ? AND phone_no = ?", day.ID, phone).
				Count(&cnt).Error; err != nil {
				return nil, err
			}
			if cnt > 0 {
				reason = "duplicate phone_no for event day"
			}
		}
		if reason != "" {
			res.Failed++
			res.Errors = append(res.Errors, CSVRowError{Row: row, Reason: reason})
			continue
		}

		toilet := strings.ToLower(field(rec, "toilet_facilities"))
		if toilet == "" {
			toilet = storage.ToiletBoth
		}
		gender := strings.ToLower(field(rec, "gender_preference"))
		if gender == "" {
			gender = storage.GenderPrefBoth
		}
		h := storage.Host{
			ID:                    uuid.NewString(),
			EventID:               eventID,
			EventDayID:            day.ID,
			Name:                  field(rec, "name"),
			PhoneNo:               phone,
			PlaceName:             field(rec, "place_name"),
			MaxParticipants:       maxP,
			ToiletFacilities:      toilet,
			GenderPreference:      gender,
			FacilitiesDescription: field(rec, "facilities_description"),
		}
		if err := s.db.WithContext(ctx).Create(&h).Error; err != nil {
			res.Failed++
			res.Errors = append(res.Errors, CSVRowError{Row: row, Reason: "db write failed"})
			continue
		}
		res.Imported++
		res.Hosts = append(res.Hosts, h)
	}
	return res, nil
}
