package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhijitraijada/vaani-service/internal/middlewares"
	"github.com/abhijitraijada/vaani-service/internal/services"
	"github.com/abhijitraijada/vaani-service/internal/storage"
)

const ctxUserKey = "current_user"

// requireAuth 校验 Bearer 令牌并把当前用户放入上下文，失败返回 401。
func (h *Handler) requireAuth(fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(401, gin.H{"error": "unauthorized"})
			return
		}
		claims, err := h.tokenSvc.Verify(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid_token"})
			return
		}
		u, err := h.userSvc.FindByID(c, claims.UserID)
		if err != nil || !u.IsActive {
			c.AbortWithStatusJSON(401, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(ctxUserKey, u)
		fn(c)
	}
}

// currentUser 取出 requireAuth 注入的当前用户。
func (h *Handler) currentUser(c *gin.Context) (*storage.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*storage.User)
	return u, ok
}

// requestID 取出 RequestID 中间件写入的请求标识。
func requestID(c *gin.Context) string {
	if v, ok := c.Get(middlewares.ContextRequestID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// respondErr 把领域错误映射为 HTTP 状态码与短错误码。
func respondErr(c *gin.Context, err error) {
	status := 500
	switch {
	case errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrEventDayNotFound),
		errors.Is(err, services.ErrRegistrationNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrHostNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrArrangementNotFound),
		errors.Is(err, services.ErrUserNotFound):
		status = 404
	case errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrHostPhoneTaken),
		errors.Is(err, services.ErrAlreadyAssigned),
		errors.Is(err, services.ErrHostFull),
		errors.Is(err, services.ErrHostHasAssignments),
		errors.Is(err, services.ErrPairExists),
		errors.Is(err, services.ErrReversePairExists):
		status = 409
	case errors.Is(err, services.ErrIndividualMembers),
		errors.Is(err, services.ErrMemberCountMismatch),
		errors.Is(err, services.ErrSamePairMember),
		errors.Is(err, services.ErrMemberCancelled),
		errors.Is(err, services.ErrWeakPassword):
		status = 400
	case errors.Is(err, services.ErrBadPassword),
		errors.Is(err, services.ErrUserInactive),
		errors.Is(err, services.ErrInvalidToken):
		status = 401
	}
	if status == 500 {
		c.JSON(500, gin.H{"error": "internal"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
