package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/revu/internal/middleware"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/permission"
	"github.com/user/revu/internal/utils"
)

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ListComments 评论下的留言列表（公开）
func (h *Handler) ListComments(c *gin.Context) {
	review, ok := h.lookupReview(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	comments, err := h.Repos.Comment.ListByReview(review.ID, limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, comments)
}

// CreateComment 发表留言（需登录），作者和归属评论由服务端绑定
func (h *Handler) CreateComment(c *gin.Context) {
	if !h.authorize(c, permission.ResourceComment, permission.OpCreate, 0) {
		return
	}

	review, ok := h.lookupReview(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "留言内容不能为空")
		return
	}

	actor := middleware.CurrentUser(c)
	comment := &model.Comment{
		ReviewID: review.ID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := h.Repos.Comment.Create(comment); err != nil {
		utils.FromError(c, err)
		return
	}

	comment.Author = actor.Username
	utils.Created(c, comment)
}

// GetComment 查看留言（公开）
func (h *Handler) GetComment(c *gin.Context) {
	comment, ok := h.lookupComment(c)
	if !ok {
		return
	}
	utils.Success(c, comment)
}

// UpdateComment 修改留言：作者本人、审核员或管理员
func (h *Handler) UpdateComment(c *gin.Context) {
	comment, ok := h.lookupComment(c)
	if !ok {
		return
	}
	if !h.authorize(c, permission.ResourceComment, permission.OpUpdate, comment.AuthorID) {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "留言内容不能为空")
		return
	}

	if err := h.Repos.Comment.Update(comment.ID, req.Text); err != nil {
		utils.FromError(c, err)
		return
	}

	fresh, err := h.Repos.Comment.FindByID(comment.ReviewID, comment.ID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, fresh)
}

// DeleteComment 删除留言：作者本人、审核员或管理员
func (h *Handler) DeleteComment(c *gin.Context) {
	comment, ok := h.lookupComment(c)
	if !ok {
		return
	}
	if !h.authorize(c, permission.ResourceComment, permission.OpDelete, comment.AuthorID) {
		return
	}

	if err := h.Repos.Comment.Delete(comment.ID); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, nil)
}

// lookupComment 按路径取评论下的留言，归属不一致同样是 404
func (h *Handler) lookupComment(c *gin.Context) (*model.Comment, bool) {
	review, ok := h.lookupReview(c)
	if !ok {
		return nil, false
	}

	commentID, err := strconv.Atoi(c.Param("comment_id"))
	if err != nil {
		utils.BadRequest(c, "无效的留言 ID")
		return nil, false
	}

	comment, err := h.Repos.Comment.FindByID(review.ID, commentID)
	if err != nil {
		utils.FromError(c, err)
		return nil, false
	}
	if comment == nil {
		utils.NotFound(c, "该评论下没有这条留言")
		return nil, false
	}
	return comment, true
}
