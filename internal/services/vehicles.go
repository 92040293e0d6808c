package services

// 拼车服务：私家车主与同行者的配对管理。
// 同一对成员（含正反向）只允许一条配对记录。

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// VehicleService 管理拼车配对。
type VehicleService struct{ db *gorm.DB }

func NewVehicleService(db *gorm.DB) *VehicleService { return &VehicleService{db: db} }

// CreateArrangementInput 为创建拼车配对的入参。
type CreateArrangementInput struct {
	VehicleOwnerMemberID string `json:"vehicle_owner_member_id"`
	CoTravelerMemberID   string `json:"co_traveler_member_id"`
	SharingNotes         string `json:"sharing_notes"`
}

// Create 创建配对：双方须为存在的成员且不同人，正反向均不得重复。
func (s *VehicleService) Create(ctx context.Context, in CreateArrangementInput) (*storage.VehicleSharing, error) {
	if in.VehicleOwnerMemberID == in.CoTravelerMemberID {
		return nil, ErrSamePairMember
	}
	for _, id := range []string{in.VehicleOwnerMemberID, in.CoTravelerMemberID} {
		var cnt int64
		if err := s.db.WithContext(ctx).Model(&storage.RegistrationMember{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
			return nil, err
		}
		if cnt == 0 {
			return nil, ErrMemberNotFound
		}
	}
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&storage.VehicleSharing{}).
		Where("vehicle_owner_member_id = ? AND co_traveler_member_id = ?", in.VehicleOwnerMemberID, in.CoTravelerMemberID).
		Count(&cnt).Error; err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrPairExists
	}
	if err := s.db.WithContext(ctx).Model(&storage.VehicleSharing{}).
		Where("vehicle_owner_member_id = ? AND co_traveler_member_id = ?", in.CoTravelerMemberID, in.VehicleOwnerMemberID).
		Count(&cnt).Error; err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrReversePairExists
	}
	v := &storage.VehicleSharing{
		ID:                   uuid.NewString(),
		VehicleOwnerMemberID: in.VehicleOwnerMemberID,
		CoTravelerMemberID:   in.CoTravelerMemberID,
		SharingNotes:         in.SharingNotes,
	}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

// List 列出配对，可按车主或同行者过滤。
func (s *VehicleService) List(ctx context.Context, ownerID, coTravelerID string) ([]storage.VehicleSharing, error) {
	q := s.db.WithContext(ctx).Model(&storage.VehicleSharing{})
	if ownerID != "" {
		q = q.Where("vehicle_owner_member_id = ?", ownerID)
	}
	if coTravelerID != "" {
		q = q.Where("co_traveler_member_id = ?", coTravelerID)
	}
	var list []storage.VehicleSharing
	err := q.Order("created_at asc").Find(&list).Error
	return list, err
}

func (s *VehicleService) Get(ctx context.Context, id string) (*storage.VehicleSharing, error) {
	var v storage.VehicleSharing
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArrangementNotFound
		}
		return nil, err
	}
	return &v, nil
}

// UpdateNotes 更新配对备注，成员配对不可变更。
func (s *VehicleService) UpdateNotes(ctx context.Context, id, notes string) (*storage.VehicleSharing, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v.SharingNotes = notes
	if err := s.db.WithContext(ctx).Save(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VehicleService) Delete(ctx context.Context, id string) error {
	v, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(v).Error
}
