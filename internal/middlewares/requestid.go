package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextRequestID 为请求 ID 在 Gin Context 中的键，
// 供访问日志与审计日志取用。
const ContextRequestID = "request_id"

const requestIDHeader = "X-Request-Id"

// RequestID 透传调用方携带的 X-Request-Id（仅接受 UUID 形态的值），
// 否则生成新 ID；保存到 Context 并回写响应头，便于跨端对账。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Set(ContextRequestID, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}
