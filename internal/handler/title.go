package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/revu/internal/apperr"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/permission"
	"github.com/user/revu/internal/repository"
	"github.com/user/revu/internal/utils"
)

type titleRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Year        int      `json:"year" binding:"required,year_lte_now"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"omitempty,slug"`
	Genre       []string `json:"genre" binding:"omitempty,dive,slug"`
}

type titleUpdateRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=100"`
	Year        *int      `json:"year" binding:"omitempty,year_lte_now"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" binding:"omitempty,slug"`
	Genre       *[]string `json:"genre" binding:"omitempty,dive,slug"`
}

// ListTitles 作品列表（公开），支持 name/year/genre/category 过滤
func (h *Handler) ListTitles(c *gin.Context) {
	limit, offset := pagination(c)
	titles, err := h.Titles.List(repository.TitleFilter{
		Name:     c.Query("name"),
		Year:     queryInt(c, "year"),
		Genre:    c.Query("genre"),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, titles)
}

// GetTitle 作品详情（公开），评分为读取时聚合
func (h *Handler) GetTitle(c *gin.Context) {
	title, ok := h.lookupTitle(c)
	if !ok {
		return
	}
	utils.Success(c, title)
}

// CreateTitle 创建作品（仅管理员）
func (h *Handler) CreateTitle(c *gin.Context) {
	if !h.authorize(c, permission.ResourceTitle, permission.OpCreate, 0) {
		return
	}

	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "作品字段不合法（年份不能晚于今年）")
		return
	}

	title := &model.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != "" {
		category, err := h.Repos.Category.FindBySlug(req.Category)
		if err != nil {
			utils.FromError(c, err)
			return
		}
		if category == nil {
			utils.BadRequest(c, "分类不存在")
			return
		}
		title.CategoryID = &category.ID
	}

	if len(req.Genre) > 0 {
		genres, err := h.Repos.Genre.FindBySlugs(req.Genre)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				utils.BadRequest(c, "体裁不存在")
			} else {
				utils.FromError(c, err)
			}
			return
		}
		title.Genres = genres
	}

	if err := h.Repos.Title.Create(title); err != nil {
		utils.FromError(c, err)
		return
	}

	h.Titles.InvalidateAll()
	created, err := h.Repos.Title.FindByID(title.ID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, created)
}

// UpdateTitle 更新作品（仅管理员）
func (h *Handler) UpdateTitle(c *gin.Context) {
	if !h.authorize(c, permission.ResourceTitle, permission.OpUpdate, 0) {
		return
	}

	title, ok := h.lookupTitle(c)
	if !ok {
		return
	}

	var req titleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "作品字段不合法（年份不能晚于今年）")
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			fields["category_id"] = nil
		} else {
			category, err := h.Repos.Category.FindBySlug(*req.Category)
			if err != nil {
				utils.FromError(c, err)
				return
			}
			if category == nil {
				utils.BadRequest(c, "分类不存在")
				return
			}
			fields["category_id"] = category.ID
		}
	}

	var genres []model.Genre
	if req.Genre != nil {
		found, err := h.Repos.Genre.FindBySlugs(*req.Genre)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				utils.BadRequest(c, "体裁不存在")
			} else {
				utils.FromError(c, err)
			}
			return
		}
		genres = found
		if genres == nil {
			genres = []model.Genre{}
		}
	}

	if err := h.Repos.Title.Update(&model.Title{ID: title.ID}, fields, genres); err != nil {
		utils.FromError(c, err)
		return
	}

	h.Titles.Invalidate(title.ID)
	fresh, err := h.Repos.Title.FindByID(title.ID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, fresh)
}

// DeleteTitle 删除作品及其下全部评论（仅管理员）
func (h *Handler) DeleteTitle(c *gin.Context) {
	if !h.authorize(c, permission.ResourceTitle, permission.OpDelete, 0) {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的作品 ID")
		return
	}

	if err := h.Repos.Title.Delete(id); err != nil {
		utils.FromError(c, err)
		return
	}
	h.Titles.InvalidateAll()
	utils.Success(c, nil)
}

// lookupTitle 按路径参数取作品，不存在时写 404
func (h *Handler) lookupTitle(c *gin.Context) (*model.Title, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的作品 ID")
		return nil, false
	}

	title, err := h.Titles.Get(id)
	if err != nil {
		utils.FromError(c, err)
		return nil, false
	}
	if title == nil {
		utils.NotFound(c, "作品不存在")
		return nil, false
	}
	return title, true
}
