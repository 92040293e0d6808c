package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/abhijitraijada/vaani-service/internal/services"
	"github.com/abhijitraijada/vaani-service/internal/utils"
)

// @Summary      创建住宿分配
// @Tags         host-assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body services.CreateAssignmentInput true "分配入参"
// @Success      201 {object} storage.HostAssignment
// @Failure      409 {object} map[string]string
// @Router       /api/v1/host-assignments [post]
func (h *Handler) createAssignment(c *gin.Context) {
	var in services.CreateAssignmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	if in.HostID == "" || in.RegistrationMemberID == "" || in.EventDayID == "" {
		c.JSON(400, gin.H{"error": "host_member_day_required"})
		return
	}
	actor, ok := h.currentUser(c)
	if !ok {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}
	a, err := h.assignSvc.Create(c, in, actor.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.dashboardSvc.InvalidateForRegistration(c, mustMemberRegistration(h, c, in.RegistrationMemberID))
	c.JSON(201, a)
}

// mustMemberRegistration 回查成员所属报名；失败返回 0（失效操作容忍空转）。
func mustMemberRegistration(h *Handler, c *gin.Context, memberID string) uint64 {
	m, err := h.memberSvc.Get(c, memberID)
	if err != nil {
		return 0
	}
	return m.RegistrationID
}

// @Summary      批量住宿分配（部分成功）
// @Tags         host-assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body services.BulkInput true "家庭、活动日与成员列表"
// @Success      200 {object} services.BulkResult
// @Failure      404 {object} map[string]string
// @Router       /api/v1/host-assignments/bulk [post]
func (h *Handler) bulkAssign(c *gin.Context) {
	var in services.BulkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	if in.HostID == "" || in.EventDayID == "" || len(in.MemberIDs) == 0 {
		c.JSON(400, gin.H{"error": "host_day_members_required"})
		return
	}
	actor, ok := h.currentUser(c)
	if !ok {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}
	res, err := h.assignSvc.Bulk(c, in, actor.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.logSvc.Write(c, "INFO", "BULK_ASSIGNED", &actor.ID, "bulk assignment to host "+in.HostID, c.ClientIP(), requestID(c))
	if len(res.Assignments) > 0 {
		h.dashboardSvc.InvalidateForRegistration(c, mustMemberRegistration(h, c, res.Assignments[0].RegistrationMemberID))
	}
	c.JSON(200, res)
}

// @Summary      住宿分配列表（分页筛选）
// @Tags         host-assignments
// @Produce      json
// @Security     BearerAuth
// @Param        host_id query string false "家庭ID"
// @Param        member_id query string false "成员ID"
// @Param        event_day_id query string false "活动日ID"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页条数（上限 5000）"
// @Success      200 {object} services.AssignmentPage
// @Router       /api/v1/host-assignments [get]
func (h *Handler) listAssignments(c *gin.Context) {
	page, size := utils.PageParams(c.Query("page"), c.Query("page_size"), 100, 5000)
	out, err := h.assignSvc.ListFiltered(c, services.AssignmentFilter{
		HostID:     c.Query("host_id"),
		MemberID:   c.Query("member_id"),
		EventDayID: c.Query("event_day_id"),
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, out)
}

// @Summary      住宿分配详情
// @Tags         host-assignments
// @Produce      json
// @Security     BearerAuth
// @Param        assignment_id path string true "分配ID"
// @Success      200 {object} storage.HostAssignment
// @Failure      404 {object} map[string]string
// @Router       /api/v1/host-assignments/{assignment_id} [get]
func (h *Handler) getAssignment(c *gin.Context) {
	a, err := h.assignSvc.Get(c, c.Param("assignment_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, a)
}

// @Summary      更新分配备注
// @Tags         host-assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        assignment_id path string true "分配ID"
// @Param        body body object true "{assignment_notes}"
// @Success      200 {object} storage.HostAssignment
// @Router       /api/v1/host-assignments/{assignment_id} [put]
func (h *Handler) updateAssignment(c *gin.Context) {
	var req struct {
		AssignmentNotes string `json:"assignment_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	a, err := h.assignSvc.UpdateNotes(c, c.Param("assignment_id"), req.AssignmentNotes)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, a)
}

// @Summary      删除住宿分配
// @Tags         host-assignments
// @Produce      json
// @Security     BearerAuth
// @Param        assignment_id path string true "分配ID"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Router       /api/v1/host-assignments/{assignment_id} [delete]
func (h *Handler) deleteAssignment(c *gin.Context) {
	a, err := h.assignSvc.Get(c, c.Param("assignment_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.assignSvc.Delete(c, a.ID); err != nil {
		respondErr(c, err)
		return
	}
	h.dashboardSvc.InvalidateForRegistration(c, mustMemberRegistration(h, c, a.RegistrationMemberID))
	c.Status(204)
}
