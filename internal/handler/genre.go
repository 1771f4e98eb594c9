package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/permission"
	"github.com/user/revu/internal/utils"
)

type genreRequest struct {
	Name string `json:"name" binding:"required,max=50"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

// ListGenres 体裁列表（公开）
func (h *Handler) ListGenres(c *gin.Context) {
	limit, offset := pagination(c)
	genres, err := h.Repos.Genre.List(c.Query("search"), limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, genres)
}

// CreateGenre 创建体裁（仅管理员）
func (h *Handler) CreateGenre(c *gin.Context) {
	if !h.authorize(c, permission.ResourceGenre, permission.OpCreate, 0) {
		return
	}

	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "体裁字段不合法")
		return
	}

	genre := &model.Genre{Name: req.Name, Slug: req.Slug}
	if err := h.Repos.Genre.Create(genre); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, genre)
}

// DeleteGenre 删除体裁（仅管理员），只摘除与作品的关联
func (h *Handler) DeleteGenre(c *gin.Context) {
	if !h.authorize(c, permission.ResourceGenre, permission.OpDelete, 0) {
		return
	}

	if err := h.Repos.Genre.DeleteBySlug(c.Param("slug")); err != nil {
		utils.FromError(c, err)
		return
	}
	h.Titles.InvalidateAll()
	utils.Success(c, nil)
}
