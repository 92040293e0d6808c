package handlers

import (
	"github.com/gin-gonic/gin"
)

// @Summary      活动看板
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        event_id path string true "活动ID"
// @Success      200 {object} services.Dashboard
// @Failure      404 {object} map[string]string
// @Router       /api/v1/dashboard/event/{event_id} [get]
func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.dashboardSvc.Get(c, c.Param("event_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, d)
}
