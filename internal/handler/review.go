package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/revu/internal/middleware"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/permission"
	"github.com/user/revu/internal/utils"
)

type reviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

// ListReviews 作品下的评论列表（公开）
func (h *Handler) ListReviews(c *gin.Context) {
	titleID, ok := h.titleIDFromPath(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	reviews, err := h.Repos.Review.ListByTitle(titleID, limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, reviews)
}

// CreateReview 发表评论（需登录）
// 作者和作品都由服务端绑定，请求体不能伪造；
// 同一作者对同一作品的第二条评论拿到 409
func (h *Handler) CreateReview(c *gin.Context) {
	if !h.authorize(c, permission.ResourceReview, permission.OpCreate, 0) {
		return
	}

	titleID, ok := h.titleIDFromPath(c)
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "评论字段不合法（分数范围 1-10）")
		return
	}

	actor := middleware.CurrentUser(c)
	review := &model.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := h.Repos.Review.Create(review); err != nil {
		utils.FromError(c, err)
		return
	}

	h.Titles.Invalidate(titleID)
	review.Author = actor.Username
	utils.Created(c, review)
}

// GetReview 查看评论（公开）
func (h *Handler) GetReview(c *gin.Context) {
	review, ok := h.lookupReview(c)
	if !ok {
		return
	}
	utils.Success(c, review)
}

// UpdateReview 修改评论：作者本人、审核员或管理员
func (h *Handler) UpdateReview(c *gin.Context) {
	review, ok := h.lookupReview(c)
	if !ok {
		return
	}
	if !h.authorize(c, permission.ResourceReview, permission.OpUpdate, review.AuthorID) {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "评论字段不合法（分数范围 1-10）")
		return
	}

	if err := h.Repos.Review.Update(review.ID, req.Text, req.Score); err != nil {
		utils.FromError(c, err)
		return
	}

	h.Titles.Invalidate(review.TitleID)
	fresh, err := h.Repos.Review.FindByID(review.TitleID, review.ID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, fresh)
}

// DeleteReview 删除评论：作者本人、审核员或管理员
func (h *Handler) DeleteReview(c *gin.Context) {
	review, ok := h.lookupReview(c)
	if !ok {
		return
	}
	if !h.authorize(c, permission.ResourceReview, permission.OpDelete, review.AuthorID) {
		return
	}

	if err := h.Repos.Review.Delete(review.ID); err != nil {
		utils.FromError(c, err)
		return
	}
	h.Titles.Invalidate(review.TitleID)
	utils.Success(c, nil)
}

// titleIDFromPath 解析路径上的作品 ID 并确认作品存在
func (h *Handler) titleIDFromPath(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的作品 ID")
		return 0, false
	}

	exists, err := h.Repos.Title.Exists(id)
	if err != nil {
		utils.FromError(c, err)
		return 0, false
	}
	if !exists {
		utils.NotFound(c, "作品不存在")
		return 0, false
	}
	return id, true
}

// lookupReview 按路径取作品下的评论
// 评论存在但不属于路径上的作品时同样是 404
func (h *Handler) lookupReview(c *gin.Context) (*model.Review, bool) {
	titleID, ok := h.titleIDFromPath(c)
	if !ok {
		return nil, false
	}

	reviewID, err := strconv.Atoi(c.Param("review_id"))
	if err != nil {
		utils.BadRequest(c, "无效的评论 ID")
		return nil, false
	}

	review, err := h.Repos.Review.FindByID(titleID, reviewID)
	if err != nil {
		utils.FromError(c, err)
		return nil, false
	}
	if review == nil {
		utils.NotFound(c, "该作品下没有这条评论")
		return nil, false
	}
	return review, true
}
