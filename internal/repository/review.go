package repository

import (
	"errors"
	"time"

	"github.com/user/revu/internal/apperr"
	"github.com/user/revu/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// authorSelect 连表补出作者用户名
const authorSelect = "reviews.*, users.username AS author"

// Create 创建评论
// 不做先查后插：并发下由 (author_id, title_id) 唯一索引保证
// 恰好一个成功、其余拿到 Conflict
func (r *ReviewRepository) Create(review *model.Review) error {
	review.PubDate = time.Now()
	if err := r.db.Create(review).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("一个作品只能评论一次")
		}
		return err
	}
	return nil
}

// ListByTitle 作品下的评论列表，按发布时间倒序
func (r *ReviewRepository) ListByTitle(titleID, limit, offset int) ([]*model.Review, error) {
	var reviews []*model.Review
	q := r.db.Model(&model.Review{}).
		Select(authorSelect).
		Joins("JOIN users ON users.id = reviews.author_id").
		Where("reviews.title_id = ?", titleID).
		Order("reviews.pub_date DESC, reviews.id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&reviews).Error
	return reviews, err
}

// FindByID 查找作品下的指定评论
// 路径上的 title 与评论实际归属不一致时同样按不存在处理
func (r *ReviewRepository) FindByID(titleID, reviewID int) (*model.Review, error) {
	var review model.Review
	err := r.db.Model(&model.Review{}).
		Select(authorSelect).
		Joins("JOIN users ON users.id = reviews.author_id").
		Where("reviews.id = ? AND reviews.title_id = ?", reviewID, titleID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByAuthor 作者在某作品下的评论
func (r *ReviewRepository) FindByAuthor(titleID, authorID int) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("title_id = ? AND author_id = ?", titleID, authorID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update 更新评论正文和分数，发布时间不可变
func (r *ReviewRepository) Update(reviewID int, text string, score int) error {
	return r.db.Model(&model.Review{}).Where("id = ?", reviewID).
		Updates(map[string]interface{}{"text": text, "score": score}).Error
}

// Delete 删除评论及其下全部留言
func (r *ReviewRepository) Delete(reviewID int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Review{}, reviewID).Error
	})
}
