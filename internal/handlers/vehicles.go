package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/abhijitraijada/vaani-service/internal/services"
)

// @Summary      创建拼车配对
// @Tags         vehicle-sharing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body services.CreateArrangementInput true "车主与同行者"
// @Success      201 {object} storage.VehicleSharing
// @Failure      409 {object} map[string]string
// @Router       /api/v1/vehicle-sharing [post]
func (h *Handler) createArrangement(c *gin.Context) {
	var in services.CreateArrangementInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	if in.VehicleOwnerMemberID == "" || in.CoTravelerMemberID == "" {
		c.JSON(400, gin.H{"error": "owner_and_co_traveler_required"})
		return
	}
	v, err := h.vehicleSvc.Create(c, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(201, v)
}

// @Summary      拼车配对列表
// @Tags         vehicle-sharing
// @Produce      json
// @Security     BearerAuth
// @Param        vehicle_owner_member_id query string false "按车主过滤"
// @Param        co_traveler_member_id query string false "按同行者过滤"
// @Success      200 {array} storage.VehicleSharing
// @Router       /api/v1/vehicle-sharing [get]
func (h *Handler) listArrangements(c *gin.Context) {
	list, err := h.vehicleSvc.List(c, c.Query("vehicle_owner_member_id"), c.Query("co_traveler_member_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, list)
}

// @Summary      拼车配对详情
// @Tags         vehicle-sharing
// @Produce      json
// @Security     BearerAuth
// @Param        arrangement_id path string true "配对ID"
// @Success      200 {object} storage.VehicleSharing
// @Failure      404 {object} map[string]string
// @Router       /api/v1/vehicle-sharing/{arrangement_id} [get]
func (h *Handler) getArrangement(c *gin.Context) {
	v, err := h.vehicleSvc.Get(c, c.Param("arrangement_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, v)
}

// @Summary      更新拼车备注
// @Tags         vehicle-sharing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        arrangement_id path string true "配对ID"
// @Param        body body object true "{sharing_notes}"
// @Success      200 {object} storage.VehicleSharing
// @Router       /api/v1/vehicle-sharing/{arrangement_id} [put]
func (h *Handler) updateArrangement(c *gin.Context) {
	var req struct {
		SharingNotes string `json:"sharing_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	v, err := h.vehicleSvc.UpdateNotes(c, c.Param("arrangement_id"), req.SharingNotes)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, v)
}

// @Summary      删除拼车配对
// @Tags         vehicle-sharing
// @Produce      json
// @Security     BearerAuth
// @Param        arrangement_id path string true "配对ID"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Router       /api/v1/vehicle-sharing/{arrangement_id} [delete]
func (h *Handler) deleteArrangement(c *gin.Context) {
	if err := h.vehicleSvc.Delete(c, c.Param("arrangement_id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(204)
}
