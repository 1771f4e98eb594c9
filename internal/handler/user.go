package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/revu/internal/middleware"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/permission"
	"github.com/user/revu/internal/utils"
)

type createUserRequest struct {
	Username  string `json:"username" binding:"required,max=150,username_not_me"`
	Email     string `json:"email" binding:"required,email,max=249"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" binding:"omitempty,oneof=user moderator admin"`
	Password  string `json:"password"`
}

type updateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=249"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
	Password  *string `json:"password"`
}

// ==================== 用户管理（管理员） ====================

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	if !h.authorize(c, permission.ResourceUser, permission.OpRead, 0) {
		return
	}

	limit, offset := pagination(c)
	users, err := h.Repos.User.List(c.Query("search"), limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, users)
}

// CreateUser 创建用户
func (h *Handler) CreateUser(c *gin.Context) {
	if !h.authorize(c, permission.ResourceUser, permission.OpCreate, 0) {
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "用户字段不合法")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	}
	if err := h.Repos.User.Create(user, req.Password); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, user)
}

// GetUser 按用户名查看用户；路径段为 "me" 时返回本人资料
func (h *Handler) GetUser(c *gin.Context) {
	if c.Param("username") == "me" {
		h.Me(c)
		return
	}
	if !h.authorize(c, permission.ResourceUser, permission.OpRead, 0) {
		return
	}

	user, err := h.lookupUser(c)
	if err != nil || user == nil {
		return
	}
	utils.Success(c, user)
}

// UpdateUser 更新用户（含角色，仅管理员入口能改角色）
// 路径段为 "me" 时走本人资料更新，role 只读
func (h *Handler) UpdateUser(c *gin.Context) {
	if c.Param("username") == "me" {
		h.UpdateMe(c)
		return
	}
	if !h.authorize(c, permission.ResourceUser, permission.OpUpdate, 0) {
		return
	}

	user, err := h.lookupUser(c)
	if err != nil || user == nil {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "用户字段不合法")
		return
	}

	fields := map[string]interface{}{}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}

	if len(fields) > 0 {
		if err := h.Repos.User.Update(user, fields); err != nil {
			utils.FromError(c, err)
			return
		}
	}
	if req.Password != nil && *req.Password != "" {
		if err := h.Repos.User.SetPassword(user.ID, *req.Password); err != nil {
			utils.FromError(c, err)
			return
		}
	}

	fresh, err := h.Repos.User.FindByID(user.ID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, fresh)
}

// DeleteUser 删除用户，其名下评论和留言一并删除
// "me" 不支持删除
func (h *Handler) DeleteUser(c *gin.Context) {
	if c.Param("username") == "me" {
		utils.MethodNotAllowed(c, "")
		return
	}
	if !h.authorize(c, permission.ResourceUser, permission.OpDelete, 0) {
		return
	}

	user, err := h.lookupUser(c)
	if err != nil || user == nil {
		return
	}
	if err := h.Repos.User.Delete(user.ID); err != nil {
		utils.FromError(c, err)
		return
	}
	h.Titles.InvalidateAll()
	utils.Success(c, nil)
}

// ==================== 本人资料 ====================

// Me 查看本人资料
func (h *Handler) Me(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		utils.Unauthorized(c, "")
		return
	}
	utils.Success(c, actor)
}

// UpdateMe 更新本人资料，role 字段只读（写入被忽略，只有管理员能提权）
func (h *Handler) UpdateMe(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		utils.Unauthorized(c, "")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "用户字段不合法")
		return
	}

	fields := map[string]interface{}{}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	// req.Role 有意不取

	if len(fields) > 0 {
		if err := h.Repos.User.Update(actor, fields); err != nil {
			utils.FromError(c, err)
			return
		}
	}

	fresh, err := h.Repos.User.FindByID(actor.ID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, fresh)
}

// lookupUser 按路径参数取用户，不存在时写 404 并返回 nil
func (h *Handler) lookupUser(c *gin.Context) (*model.User, error) {
	user, err := h.Repos.User.FindByUsername(c.Param("username"))
	if err != nil {
		utils.FromError(c, err)
		return nil, err
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return nil, nil
	}
	return user, nil
}
