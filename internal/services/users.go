package services

// 用户服务：提供主办方账号的查询、创建与口令校验能力。

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// UserService 提供基础用户 CRUD 与口令校验。
type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

func (s *UserService) FindByPhone(ctx context.Context, phone string) (*storage.User, error) {
	var u storage.User
	if err := s.db.WithContext(ctx).Where("phone_number = ?", phone).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*storage.User, error) {
	var u storage.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CheckPassword 校验用户口令（bcrypt）。
func (s *UserService) CheckPassword(u *storage.User, password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Create 创建账号；userType 取 organiser 或 admin，手机号需唯一。
func (s *UserService) Create(ctx context.Context, phone, password, name, email, userType string) (*storage.User, error) {
	if phone == "" || password == "" {
		return nil, errors.New("phone/password required")
	}
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&storage.User{}).Where("phone_number = ?", phone).Count(&cnt).Error; err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrPhoneTaken
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := &storage.User{
		ID:           uuid.NewString(),
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Name:         name,
		Email:        email,
		UserType:     userType,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 按手机号+口令验证登录，停用账号拒绝。
func (s *UserService) Authenticate(ctx context.Context, phone, password string) (*storage.User, error) {
	u, err := s.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !s.CheckPassword(u, password) {
		return nil, ErrBadPassword
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	return u, nil
}

// Count 返回账号总数（用于首次启动的引导判断）。
func (s *UserService) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&storage.User{}).Count(&cnt).Error
	return cnt, err
}

// Save 持久化用户字段变更。
func (s *UserService) Save(ctx context.Context, u *storage.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

// UpdateProfile 更新当前用户的基本资料（姓名与邮箱）；手机号与账号类型不可变更。
func (s *UserService) UpdateProfile(ctx context.Context, id, name, email string) (*storage.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = email
	}
	if err := s.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword 变更用户口令（需要提供旧口令）。
func (s *UserService) ChangePassword(ctx context.Context, id, oldPwd, newPwd string) error {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.CheckPassword(u, oldPwd) {
		return ErrBadPassword
	}
	if len(newPwd) < 6 {
		return ErrWeakPassword
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(newPwd), bcrypt.DefaultCost)
	u.PasswordHash = string(hash)
	return s.Save(ctx, u)
}
