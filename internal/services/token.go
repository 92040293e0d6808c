package services

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/abhijitraijada/vaani-service/internal/config"
	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// TokenService 负责签发与校验登录态 JWT（HS256，共享密钥来自配置）。
type TokenService struct {
	cfg config.Config
}

func NewTokenService(cfg config.Config) *TokenService { return &TokenService{cfg: cfg} }

// AccessClaims 为访问令牌的声明集合；sub 为手机号，uid 为用户主键。
type AccessClaims struct {
	UserID   string `json:"uid"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// Issue 为指定用户签发访问令牌，返回令牌与过期时间。
func (s *TokenService) Issue(u *storage.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.Auth.AccessTokenTTL)
	claims := AccessClaims{
		UserID:   u.ID,
		UserType: u.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.PhoneNumber,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify 校验令牌签名与有效期，仅接受 HS256。
func (s *TokenService) Verify(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
