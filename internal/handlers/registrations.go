package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhijitraijada/vaani-service/internal/services"
	"github.com/abhijitraijada/vaani-service/internal/storage"
	"github.com/abhijitraijada/vaani-service/internal/utils"
)

func parseRegistrationID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("registration_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "bad_registration_id"})
		return 0, false
	}
	return id, true
}

// @Summary      创建报名（公开）
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        body body services.CreateRegistrationInput true "报名、成员与每日偏好"
// @Success      201 {object} storage.Registration
// @Failure      400 {object} map[string]string
// @Router       /api/v1/registrations [post]
func (h *Handler) createRegistration(c *gin.Context) {
	var in services.CreateRegistrationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	if in.EventID == "" || len(in.Members) == 0 {
		c.JSON(400, gin.H{"error": "event_and_members_required"})
		return
	}
	reg, err := h.regSvc.Create(c, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.dashboardSvc.Invalidate(c, reg.EventID)
	c.JSON(201, reg)
}

// @Summary      报名详情
// @Tags         registrations
// @Produce      json
// @Param        registration_id path int true "报名ID"
// @Success      200 {object} storage.Registration
// @Failure      404 {object} map[string]string
// @Router       /api/v1/registrations/{registration_id} [get]
func (h *Handler) getRegistration(c *gin.Context) {
	id, ok := parseRegistrationID(c)
	if !ok {
		return
	}
	reg, err := h.regSvc.Get(c, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, reg)
}

// @Summary      报名列表（按活动分页）
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        event_id query string true "活动ID"
// @Param        skip query int false "偏移"
// @Param        limit query int false "条数"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/registrations [get]
func (h *Handler) listRegistrations(c *gin.Context) {
	eventID := c.Query("event_id")
	if eventID == "" {
		c.JSON(400, gin.H{"error": "event_id_required"})
		return
	}
	skip, limit := utils.OffsetLimit(c.Query("skip"), c.Query("limit"), 100, 1000)
	regs, total, err := h.regSvc.List(c, eventID, skip, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, gin.H{"registrations": regs, "total": total, "skip": skip, "limit": limit})
}

// @Summary      按手机号检索参与者
// @Tags         registrations
// @Produce      json
// @Param        event_id query string true "活动ID"
// @Param        phone_number query string true "参与者手机号"
// @Success      200 {object} services.ParticipantSearch
// @Failure      404 {object} map[string]string
// @Router       /api/v1/registrations/search [get]
func (h *Handler) searchParticipant(c *gin.Context) {
	eventID := c.Query("event_id")
	phone := c.Query("phone_number")
	if eventID == "" || phone == "" {
		c.JSON(400, gin.H{"error": "event_id_and_phone_required"})
		return
	}
	res, err := h.regSvc.SearchByPhone(c, eventID, phone)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, res)
}

// @Summary      报名下的成员列表
// @Tags         members
// @Produce      json
// @Param        registration_id path int true "报名ID"
// @Success      200 {array} storage.RegistrationMember
// @Router       /api/v1/registrations/{registration_id}/members [get]
func (h *Handler) membersByRegistration(c *gin.Context) {
	id, ok := parseRegistrationID(c)
	if !ok {
		return
	}
	members, err := h.memberSvc.ByRegistration(c, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, members)
}

// @Summary      更新成员资料
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        member_id path string true "成员ID"
// @Param        body body services.MemberUpdateInput true "待更新字段（缺省不变）"
// @Success      200 {object} storage.RegistrationMember
// @Failure      404 {object} map[string]string
// @Router       /api/v1/members/{member_id} [put]
func (h *Handler) updateMember(c *gin.Context) {
	var in services.MemberUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	m, err := h.memberSvc.Update(c, c.Param("member_id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.dashboardSvc.InvalidateForRegistration(c, m.RegistrationID)
	c.JSON(200, m)
}

// @Summary      变更成员状态
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        member_id path string true "成员ID"
// @Param        body body object true "{status}"
// @Success      200 {object} storage.RegistrationMember
// @Failure      400 {object} map[string]string
// @Router       /api/v1/members/{member_id}/status [patch]
func (h *Handler) updateMemberStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	switch req.Status {
	case storage.StatusRegistered, storage.StatusWaiting, storage.StatusConfirmed, storage.StatusCancelled:
	default:
		c.JSON(400, gin.H{"error": "bad_status"})
		return
	}
	m, err := h.memberSvc.UpdateStatus(c, c.Param("member_id"), req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	if actor, ok := h.currentUser(c); ok {
		h.logSvc.Write(c, "INFO", "MEMBER_STATUS_CHANGED", &actor.ID, "member "+m.ID+" -> "+req.Status, c.ClientIP(), requestID(c))
	}
	h.dashboardSvc.InvalidateForRegistration(c, m.RegistrationID)
	c.JSON(200, m)
}

// @Summary      按状态筛选成员
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        status query string true "registered|waiting|confirmed|cancelled"
// @Param        event_id query string false "限定活动"
// @Success      200 {array} storage.RegistrationMember
// @Router       /api/v1/members [get]
func (h *Handler) membersByStatus(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case storage.StatusRegistered, storage.StatusWaiting, storage.StatusConfirmed, storage.StatusCancelled:
	default:
		c.JSON(400, gin.H{"error": "bad_status"})
		return
	}
	members, err := h.memberSvc.ByStatus(c, status, c.Query("event_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, members)
}
