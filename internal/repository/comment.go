package repository

import (
	"errors"
	"time"

	"github.com/user/revu/internal/model"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// commentSelect 连表补出作者用户名
const commentSelect = "comments.*, users.username AS author"

// Create 创建留言，归属评论由调用方在路径上解析并绑定
func (r *CommentRepository) Create(comment *model.Comment) error {
	comment.PubDate = time.Now()
	return r.db.Create(comment).Error
}

// ListByReview 评论下的留言列表，按发布时间正序
func (r *CommentRepository) ListByReview(reviewID, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	q := r.db.Model(&model.Comment{}).
		Select(commentSelect).
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.review_id = ?", reviewID).
		Order("comments.pub_date ASC, comments.id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&comments).Error
	return comments, err
}

// FindByID 查找评论下的指定留言，归属不一致按不存在处理
func (r *CommentRepository) FindByID(reviewID, commentID int) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Model(&model.Comment{}).
		Select(commentSelect).
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.id = ? AND comments.review_id = ?", commentID, reviewID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update 更新留言正文
func (r *CommentRepository) Update(commentID int, text string) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", commentID).Update("text", text).Error
}

// Delete 删除留言
func (r *CommentRepository) Delete(commentID int) error {
	return r.db.Delete(&model.Comment{}, commentID).Error
}
