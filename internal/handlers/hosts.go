package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/abhijitraijada/vaani-service/internal/services"
	"github.com/abhijitraijada/vaani-service/internal/utils"
)

// @Summary      创建住宿家庭
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body services.CreateHostInput true "家庭档案"
// @Success      201 {object} storage.Host
// @Failure      409 {object} map[string]string
// @Router       /api/v1/hosts [post]
func (h *Handler) createHost(c *gin.Context) {
	var in services.CreateHostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	if in.Name == "" || in.EventDayID == "" || in.MaxParticipants <= 0 {
		c.JSON(400, gin.H{"error": "name_day_capacity_required"})
		return
	}
	host, err := h.hostSvc.Create(c, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(201, host)
}

// @Summary      住宿家庭列表（分页筛选）
// @Tags         hosts
// @Produce      json
// @Security     BearerAuth
// @Param        event_id query string false "活动ID"
// @Param        event_day_id query string false "活动日ID"
// @Param        toilet_facilities query string false "indian|western|both"
// @Param        gender_preference query string false "male|female|both"
// @Param        search query string false "按姓名/地点模糊匹配"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页条数（上限 100）"
// @Success      200 {object} services.HostPage
// @Router       /api/v1/hosts [get]
func (h *Handler) listHosts(c *gin.Context) {
	page, size := utils.PageParams(c.Query("page"), c.Query("page_size"), 20, 100)
	out, err := h.hostSvc.ListFiltered(c, services.HostFilter{
		EventID:          c.Query("event_id"),
		EventDayID:       c.Query("event_day_id"),
		ToiletFacilities: c.Query("toilet_facilities"),
		GenderPreference: c.Query("gender_preference"),
		Search:           c.Query("search"),
		Page:             page,
		PageSize:         size,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, out)
}

// @Summary      按活动日分组的家庭清单
// @Tags         hosts
// @Produce      json
// @Security     BearerAuth
// @Param        event_id query string true "活动ID"
// @Success      200 {array} services.DayHosts
// @Router       /api/v1/hosts/by-day [get]
func (h *Handler) hostsByDay(c *gin.Context) {
	eventID := c.Query("event_id")
	if eventID == "" {
		c.JSON(400, gin.H{"error": "event_id_required"})
		return
	}
	out, err := h.hostSvc.GroupedByDay(c, eventID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, out)
}

// @Summary      家庭详情（含入住与余位）
// @Tags         hosts
// @Produce      json
// @Security     BearerAuth
// @Param        host_id path string true "家庭ID"
// @Success      200 {object} services.HostDetail
// @Failure      404 {object} map[string]string
// @Router       /api/v1/hosts/{host_id} [get]
func (h *Handler) getHost(c *gin.Context) {
	out, err := h.hostSvc.Get(c, c.Param("host_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, out)
}

// @Summary      更新家庭档案
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        host_id path string true "家庭ID"
// @Param        body body services.HostUpdateInput true "待更新字段（缺省不变）"
// @Success      200 {object} storage.Host
// @Failure      409 {object} map[string]string
// @Router       /api/v1/hosts/{host_id} [put]
func (h *Handler) updateHost(c *gin.Context) {
	var in services.HostUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	host, err := h.hostSvc.Update(c, c.Param("host_id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, host)
}

// @Summary      删除家庭（有分配时拒绝）
// @Tags         hosts
// @Produce      json
// @Security     BearerAuth
// @Param        host_id path string true "家庭ID"
// @Success      204 {string} string "No Content"
// @Failure      409 {object} map[string]string
// @Router       /api/v1/hosts/{host_id} [delete]
func (h *Handler) deleteHost(c *gin.Context) {
	if err := h.hostSvc.Delete(c, c.Param("host_id")); err != nil {
		respondErr(c, err)
		return
	}
	if actor, ok := h.currentUser(c); ok {
		h.logSvc.Write(c, "INFO", "HOST_DELETED", &actor.ID, "deleted host "+c.Param("host_id"), c.ClientIP(), requestID(c))
	}
	c.Status(204)
}

// @Summary      CSV 批量导入家庭
// @Tags         hosts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        event_id formData string true "活动ID"
// @Param        file formData file true "CSV 文件"
// @Success      200 {object} services.CSVImportResult
// @Failure      400 {object} map[string]string
// @Router       /api/v1/hosts/upload-csv [post]
func (h *Handler) uploadHostsCSV(c *gin.Context) {
	eventID := c.PostForm("event_id")
	if eventID == "" {
		c.JSON(400, gin.H{"error": "event_id_required"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"error": "file_required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(400, gin.H{"error": "file_unreadable"})
		return
	}
	defer f.Close()
	res, err := h.hostSvc.ImportCSV(c, eventID, f)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			respondErr(c, err)
			return
		}
		// 表头缺列或整体不可解析按客户端错误处理。
		c.JSON(400, gin.H{"error": "bad_csv", "detail": err.Error()})
		return
	}
	if actor, ok := h.currentUser(c); ok {
		h.logSvc.Write(c, "INFO", "HOSTS_CSV_IMPORTED", &actor.ID, "csv import for event "+eventID, c.ClientIP(), requestID(c))
	}
	c.JSON(200, res)
}
