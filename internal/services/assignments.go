package services

// 住宿分配服务：成员与家庭的逐条/批量配对。
// 约束：同一成员同一活动日最多一条分配；家庭床位不可超员。

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/metrics"
	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// AssignmentService 管理住宿分配。
type AssignmentService struct{ db *gorm.DB }

func NewAssignmentService(db *gorm.DB) *AssignmentService { return &AssignmentService{db: db} }

// CreateAssignmentInput 为单条分配的入参。
type CreateAssignmentInput struct {
	HostID               string `json:"host_id"`
	RegistrationMemberID string `json:"registration_member_id"`
	EventDayID           string `json:"event_day_id"`
	AssignmentNotes      string `json:"assignment_notes"`
}

func (s *AssignmentService) loadHost(tx *gorm.DB, id string) (*storage.Host, error) {
	var h storage.Host
	if err := tx.Where("id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHostNotFound
		}
		return nil, err
	}
	return &h, nil
}

// Create 创建单条分配：成员当日不得重复分配，家庭不得超员。
func (s *AssignmentService) Create(ctx context.Context, in CreateAssignmentInput, assignedBy string) (*storage.HostAssignment, error) {
	var out *storage.HostAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		host, err := s.loadHost(tx, in.HostID)
		if err != nil {
			return err
		}
		var member storage.RegistrationMember
		if err := tx.Where("id = ?", in.RegistrationMemberID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		if member.Status == storage.StatusCancelled {
			return ErrMemberCancelled
		}
		var day storage.EventDay
		if err := tx.Where("id = ?", in.EventDayID).First(&day).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventDayNotFound
			}
			return err
		}
		var dup int64
		if err := tx.Model(&storage.HostAssignment{}).
			Where("registration_member_id = ? AND event_day_id = ?", in.RegistrationMemberID, in.EventDayID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyAssigned
		}
		var occupied int64
		if err := tx.Model(&storage.HostAssignment{}).Where("host_id = ?", in.HostID).Count(&occupied).Error; err != nil {
			return err
		}
		if occupied >= int64(host.MaxParticipants) {
			return ErrHostFull
		}
		a := &storage.HostAssignment{
			ID:                   uuid.NewString(),
			HostID:               in.HostID,
			RegistrationMemberID: in.RegistrationMemberID,
			EventDayID:           in.EventDayID,
			AssignmentNotes:      in.AssignmentNotes,
			AssignedBy:           assignedBy,
		}
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.AssignmentsCreated.Inc()
	return out, nil
}

// AssignmentFilter 为分配列表的可选过滤条件。
type AssignmentFilter struct {
	HostID     string
	MemberID   string
	EventDayID string
	Page       int
	PageSize   int
}

// AssignmentPage 为分配分页结果。
type AssignmentPage struct {
	Assignments []storage.HostAssignment `json:"assignments"`
	Total       int64                    `json:"total"`
	Page        int                      `json:"page"`
	PageSize    int                      `json:"page_size"`
}

// ListFiltered 按条件分页列出分配记录。
func (s *AssignmentService) ListFiltered(ctx context.Context, f AssignmentFilter) (*AssignmentPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 5000 {
		f.PageSize = 100
	}
	q := s.db.WithContext(ctx).Model(&storage.HostAssignment{})
	if f.HostID != "" {
		q = q.Where("host_id = ?", f.HostID)
	}
	if f.MemberID != "" {
		q = q.Where("registration_member_id = ?", f.MemberID)
	}
	if f.EventDayID != "" {
		q = q.Where("event_day_id = ?", f.EventDayID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var list []storage.HostAssignment
	err := q.Order("created_at asc").
		Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return &AssignmentPage{Assignments: list, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (s *AssignmentService) Get(ctx context.Context, id string) (*storage.HostAssignment, error) {
	var a storage.HostAssignment
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpdateNotes 更新分配备注，配对关系不可变更。
func (s *AssignmentService) UpdateNotes(ctx context.Context, id, notes string) (*storage.HostAssignment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.AssignmentNotes = notes
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(a).Error
}

// BulkInput 为批量分配入参：把一组成员分给同一家庭的同一活动日。
type BulkInput struct {
	HostID     string   `json:"host_id"`
	EventDayID string   `json:"event_day_id"`
	MemberIDs  []string `json:"member_ids"`
	Notes      string   `json:"notes"`
}

// BulkFailure 记录批量分配中单个成员的失败原因。
type BulkFailure struct {
	MemberID string `json:"member_id"`
	Reason   string `json:"reason"`
}

// BulkResult 汇总一次批量分配的结果（部分成功）。
type BulkResult struct {
	Requested   int                      `json:"requested"`
	Assigned    int                      `json:"assigned"`
	Failed      int                      `json:"failed"`
	Assignments []storage.HostAssignment `json:"assignments"`
	Failures    []BulkFailure            `json:"failures"`
}

// Bulk 批量分配：按入参顺序逐个校验并写入，床位用尽后其余成员记为失败；
// 整批在一个事务里执行，单成员失败不回滚已成功的分配。
func (s *AssignmentService) Bulk(ctx context.Context, in BulkInput, assignedBy string) (*BulkResult, error) {
	res := &BulkResult{
		Requested:   len(in.MemberIDs),
		Assignments: []storage.HostAssignment{},
		Failures:    []BulkFailure{},
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		host, err := s.loadHost(tx, in.HostID)
		if err != nil {
			return err
		}
		var day storage.EventDay
		if err := tx.Where("id = ?", in.EventDayID).First(&day).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventDayNotFound
			}
			return err
		}
		var occupied int64
		if err := tx.Model(&storage.HostAssignment{}).Where("host_id = ?", in.HostID).Count(&occupied).Error; err != nil {
			return err
		}
		remaining := host.MaxParticipants - int(occupied)

		for _, memberID := range in.MemberIDs {
			var member storage.RegistrationMember
			if err := tx.Where("id = ?", memberID).First(&member).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					res.Failures = append(res.Failures, BulkFailure{MemberID: memberID, Reason: "member_not_found"})
					continue
				}
				return err
			}
			if member.Status == storage.StatusCancelled {
				res.Failures = append(res.Failures, BulkFailure{MemberID: memberID, Reason: "member_cancelled"})
				continue
			}
			var dup int64
			if err := tx.Model(&storage.HostAssignment{}).
				Where("registration_member_id = ? AND event_day_id = ?", memberID, in.EventDayID).
				Count(&dup).Error; err != nil {
				return err
			}
			if dup > 0 {
				res.Failures = append(res.Failures, BulkFailure{MemberID: memberID, Reason: "member_already_assigned_for_day"})
				continue
			}
			if remaining <= 0 {
				res.Failures = append(res.Failures, BulkFailure{MemberID: memberID, Reason: "host_capacity_exceeded"})
				continue
			}
			a := storage.HostAssignment{
				ID:                   uuid.NewString(),
				HostID:               in.HostID,
				RegistrationMemberID: memberID,
				EventDayID:           in.EventDayID,
				AssignmentNotes:      in.Notes,
				AssignedBy:           assignedBy,
			}
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
			remaining--
			res.Assignments = append(res.Assignments, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Assigned = len(res.Assignments)
	res.Failed = len(res.Failures)
	metrics.AssignmentsCreated.Add(float64(res.Assigned))
	return res, nil
}
