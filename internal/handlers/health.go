package handlers

import (
	"github.com/gin-gonic/gin"
)

// @Summary      进程存活检查
// @Tags         ops
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /healthz [get]
func (h *Handler) healthz(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// @Summary      数据库表健康检查
// @Tags         ops
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} map[string]string
// @Router       /api/v1/health/tables [get]
func (h *Handler) healthTables(c *gin.Context) {
	tables, err := h.db.Migrator().GetTables()
	if err != nil {
		c.JSON(500, gin.H{"error": "db"})
		return
	}
	redisOK := false
	if h.rdb != nil && h.rdb.Ping(c).Err() == nil {
		redisOK = true
	}
	c.JSON(200, gin.H{"tables": tables, "table_count": len(tables), "redis": redisOK})
}
