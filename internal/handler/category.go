package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/permission"
	"github.com/user/revu/internal/utils"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

// ListCategories 分类列表（公开）
func (h *Handler) ListCategories(c *gin.Context) {
	limit, offset := pagination(c)
	categories, err := h.Repos.Category.List(c.Query("search"), limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, categories)
}

// CreateCategory 创建分类（仅管理员）
func (h *Handler) CreateCategory(c *gin.Context) {
	if !h.authorize(c, permission.ResourceCategory, permission.OpCreate, 0) {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "分类字段不合法")
		return
	}

	category := &model.Category{Name: req.Name, Slug: req.Slug}
	if err := h.Repos.Category.Create(category); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, category)
}

// DeleteCategory 删除分类（仅管理员），引用它的作品分类置空
func (h *Handler) DeleteCategory(c *gin.Context) {
	if !h.authorize(c, permission.ResourceCategory, permission.OpDelete, 0) {
		return
	}

	if err := h.Repos.Category.DeleteBySlug(c.Param("slug")); err != nil {
		utils.FromError(c, err)
		return
	}
	h.Titles.InvalidateAll()
	utils.Success(c, nil)
}
