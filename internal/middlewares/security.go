package middlewares

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhijitraijada/vaani-service/internal/config"
)

// SecurityHeaders 为所有响应附加基础安全头；HSTS 按配置在 HTTPS 请求上下发。
// HSTS 值在装配时算好，逐请求仅做头写入。
func SecurityHeaders(cfg config.Config) gin.HandlerFunc {
	hsts := ""
	if cfg.Security.HSTS.Enabled {
		hsts = "max-age=" + strconv.Itoa(cfg.Security.HSTS.MaxAgeSeconds)
		if cfg.Security.HSTS.IncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		// 接口响应包含报名人个人信息，禁止中间层缓存。
		h.Set("Cache-Control", "no-store")
		if hsts != "" && (c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https") {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}
