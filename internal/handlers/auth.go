package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// @Summary      登录获取访问令牌
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body body object true "{phone_number, password}"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]string
// @Router       /api/v1/users/login [post]
func (h *Handler) login(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number"`
		Password    string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PhoneNumber == "" || req.Password == "" {
		c.JSON(400, gin.H{"error": "phone_and_password_required"})
		return
	}
	u, err := h.userSvc.Authenticate(c, req.PhoneNumber, req.Password)
	if err != nil {
		// 登录失败细节不回传调用方，只落审计日志。
		h.logSvc.Write(c, "WARN", "LOGIN_FAILED", nil, "login failed for "+req.PhoneNumber, c.ClientIP(), requestID(c))
		c.JSON(401, gin.H{"error": "invalid_credentials"})
		return
	}
	token, exp, err := h.tokenSvc.Issue(u)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.logSvc.Write(c, "INFO", "LOGIN_OK", &u.ID, "user logged in", c.ClientIP(), requestID(c))
	c.JSON(200, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_at":   exp.Unix(),
		"user":         u,
	})
}

// @Summary      创建后台账号
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body object true "{phone_number, password, name, email, user_type}"
// @Success      201 {object} storage.User
// @Failure      409 {object} map[string]string
// @Router       /api/v1/users [post]
func (h *Handler) createUser(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number"`
		Password    string `json:"password"`
		Name        string `json:"name"`
		Email       string `json:"email"`
		UserType    string `json:"user_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PhoneNumber == "" || req.Password == "" {
		c.JSON(400, gin.H{"error": "phone_and_password_required"})
		return
	}
	if req.UserType != storage.UserTypeAdmin {
		req.UserType = storage.UserTypeOrganiser
	}
	u, err := h.userSvc.Create(c, req.PhoneNumber, req.Password, req.Name, req.Email, req.UserType)
	if err != nil {
		respondErr(c, err)
		return
	}
	if actor, ok := h.currentUser(c); ok {
		h.logSvc.Write(c, "INFO", "USER_CREATED", &actor.ID, "created user "+u.ID, c.ClientIP(), requestID(c))
	}
	c.JSON(201, u)
}

// @Summary      当前用户信息
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} storage.User
// @Router       /api/v1/users/me [get]
func (h *Handler) me(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(200, u)
}

// @Summary      更新当前用户资料
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body object true "{name, email}"
// @Success      200 {object} storage.User
// @Router       /api/v1/users/me [put]
func (h *Handler) updateMe(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	out, err := h.userSvc.UpdateProfile(c, u.ID, req.Name, req.Email)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(200, out)
}

// @Summary      修改当前用户口令
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body object true "{old_password, new_password}"
// @Success      204 {string} string "No Content"
// @Router       /api/v1/users/me/password [post]
func (h *Handler) changePassword(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad_request"})
		return
	}
	if err := h.userSvc.ChangePassword(c, u.ID, req.OldPassword, req.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	h.logSvc.Write(c, "INFO", "PASSWORD_CHANGED", &u.ID, "password changed", c.ClientIP(), requestID(c))
	c.Status(204)
}
