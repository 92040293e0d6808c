package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijitraijada/vaani-service/internal/config"
)

func newMiddlewareRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	return r
}

func TestRequestIDPassthroughAndGeneration(t *testing.T) {
	r := newMiddlewareRouter(RequestID())

	// 携带 UUID 形态的请求 ID 原样透传。
	rid := uuid.NewString()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-Id", rid)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, rid, w.Header().Get("X-Request-Id"))

	// 非 UUID 值被替换为新生成的 ID。
	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-Id", "not-a-uuid; evil")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	got := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, got)
	assert.NotEqual(t, "not-a-uuid; evil", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestSecurityHeaders(t *testing.T) {
	cfg := config.Load()
	r := newMiddlewareRouter(SecurityHeaders(cfg))

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	// 明文请求不下发 HSTS。
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
}
