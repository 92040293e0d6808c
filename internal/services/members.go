package services

// 成员服务：参与者资料与状态管理。
// 成员被取消时同步清理其名下的住宿分配。

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// MemberService 管理报名成员的读写。
type MemberService struct{ db *gorm.DB }

func NewMemberService(db *gorm.DB) *MemberService { return &MemberService{db: db} }

func (s *MemberService) Get(ctx context.Context, id string) (*storage.RegistrationMember, error) {
	var m storage.RegistrationMember
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// MemberUpdateInput 的字段均为指针，nil 表示不修改。
type MemberUpdateInput struct {
	PhoneNumber         *string `json:"phone_number"`
	Name                *string `json:"name"`
	Email               *string `json:"email"`
	City                *string `json:"city"`
	Age                 *int    `json:"age"`
	Gender              *string `json:"gender"`
	Language            *string `json:"language"`
	FloorPreference     *string `json:"floor_preference"`
	SpecialRequirements *string `json:"special_requirements"`
}

// Update 按输入更新成员资料，未提供的字段保持不变。
func (s *MemberService) Update(ctx context.Context, id string, in MemberUpdateInput) (*storage.RegistrationMember, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.PhoneNumber != nil {
		m.PhoneNumber = *in.PhoneNumber
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Email != nil {
		m.Email = *in.Email
	}
	if in.City != nil {
		m.City = *in.City
	}
	if in.Age != nil {
		m.Age = *in.Age
	}
	if in.Gender != nil {
		m.Gender = *in.Gender
	}
	if in.Language != nil {
		m.Language = *in.Language
	}
	if in.FloorPreference != nil {
		m.FloorPreference = *in.FloorPreference
	}
	if in.SpecialRequirements != nil {
		m.SpecialRequirements = *in.SpecialRequirements
	}
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateStatus 变更成员状态；取消时删除该成员的全部住宿分配。
func (s *MemberService) UpdateStatus(ctx context.Context, id, status string) (*storage.RegistrationMember, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m.Status = status
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		if status == storage.StatusCancelled {
			return tx.Where("registration_member_id = ?", m.ID).Delete(&storage.HostAssignment{}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ByRegistration 返回某报名下的全部成员。
func (s *MemberService) ByRegistration(ctx context.Context, registrationID uint64) ([]storage.RegistrationMember, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&storage.Registration{}).Where("id = ?", registrationID).Count(&cnt).Error; err != nil {
		return nil, err
	}
	if cnt == 0 {
		return nil, ErrRegistrationNotFound
	}
	var members []storage.RegistrationMember
	err := s.db.WithContext(ctx).Where("registration_id = ?", registrationID).Order("created_at asc").Find(&members).Error
	return members, err
}

// ByStatus 按状态筛选成员，可选限定活动。
func (s *MemberService) ByStatus(ctx context.Context, status, eventID string) ([]storage.RegistrationMember, error) {
	q := s.db.WithContext(ctx).Model(&storage.RegistrationMember{}).Where("registration_members.status = ?", status)
	if eventID != "" {
		q = q.Joins("JOIN registrations ON registrations.id = registration_members.registration_id").
			Where("registrations.event_id = ?", eventID)
	}
	var members []storage.RegistrationMember
	err := q.Order("registration_members.created_at asc").Find(&members).Error
	return members, err
}
