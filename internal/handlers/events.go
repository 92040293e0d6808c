package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/abhijitraijada/vaani-service/internal/services"
)

// @Summary      创建活动（含活动日）
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body services.CreateEventInput true "活动与活动日"
// @Success      201 {object} storage.Event
// @Failure      400 {object} map[string]string
// @Router       /api/v1/events [post]
func (h *Handler) createEvent(c *gin.Context) {
	var in services.CreateEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	if in.EventName == "" || len(in.Days) == 0 {
		c.JSON(400, gin.H{"error": "name_and_days_required"})
		return
	}
	ev, err := h.eventSvc.Create(c, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	if actor, ok := h.currentUser(c); ok {
		h.logSvc.Write(c, "INFO", "EVENT_CREATED", &actor.ID, "created event "+ev.ID, c.ClientIP(), requestID(c))
	}
	c.JSON(201, ev)
}

// @Summary      活动列表
// @Tags         events
// @Produce      json
// @Success      200 {array} storage.Event
// @Router       /api/v1/events [get]
func (h *Handler) listEvents(c *gin.Context) {
	evs, err := h.eventSvc.List(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, evs)
}

// @Summary      活动详情
// @Tags         events
// @Produce      json
// @Param        event_id path string true "活动ID"
// @Success      200 {object} storage.Event
// @Failure      404 {object} map[string]string
// @Router       /api/v1/events/{event_id} [get]
func (h *Handler) getEvent(c *gin.Context) {
	ev, err := h.eventSvc.Get(c, c.Param("event_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, ev)
}
