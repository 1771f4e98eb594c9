package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/revu/internal/middleware"
	"github.com/user/revu/internal/utils"
)

type signupRequest struct {
	Username string `json:"username" binding:"required,max=150,username_not_me"`
	Email    string `json:"email" binding:"required,email,max=249"`
}

type tokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// Signup 注册：按 (username, email) 幂等建号并发送确认码
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "用户名或邮箱不合法")
		return
	}

	user, err := h.Repos.User.GetOrCreate(req.Username, req.Email)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	// 确认码与用户当前状态绑定，发送失败对本次请求是致命的
	code := h.Codes.MakeCode(user)
	if err := h.Mailer.Send(user.Email, "注册确认码", "你的确认码："+code); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"username": user.Username,
		"email":    user.Email,
	})
}

// Token 确认码换取访问 Token
func (h *Handler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "缺少用户名或确认码")
		return
	}

	user, err := h.Repos.User.FindByUsername(req.Username)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return
	}

	// 确认码是用户状态的函数：状态变过，旧码即失效
	if !h.Codes.CheckCode(user, req.ConfirmationCode) {
		utils.BadRequest(c, "确认码错误或已失效")
		return
	}

	token, err := middleware.GenerateToken(user, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	if err := h.Repos.User.TouchLastLogin(user.ID); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, gin.H{"token": token})
}
