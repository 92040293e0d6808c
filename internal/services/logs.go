package services

// 审计日志服务：敏感操作统一落库并输出结构化日志。

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// LogService 负责审计日志写入。
type LogService struct{ db *gorm.DB }

func NewLogService(db *gorm.DB) *LogService { return &LogService{db: db} }

// Write 记录一条审计日志；落库失败仅告警，不影响主流程。
func (s *LogService) Write(ctx context.Context, level, event string, userID *string, desc, ip, requestID string) {
	rec := &storage.LogRecord{
		Timestamp:   time.Now(),
		Level:       level,
		Event:       event,
		UserID:      userID,
		Description: desc,
		IPAddress:   ip,
		RequestID:   requestID,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		log.WithError(err).Warn("audit log write failed")
		return
	}
	log.WithFields(log.Fields{"event": event, "ip": ip, "request_id": requestID}).Info(desc)
}
