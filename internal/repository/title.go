package repository

import (
	"errors"

	"github.com/user/revu/internal/apperr"
	"github.com/user/revu/internal/model"
	"gorm.io/gorm"
)

type TitleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

// ratingSelect 读取时聚合评分，无评论时为 NULL
const ratingSelect = "titles.*, (SELECT AVG(score) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// TitleFilter 作品列表过滤条件
type TitleFilter struct {
	Name     string
	Year     int
	Genre    string
	Category string
	Limit    int
	Offset   int
}

// Create 创建作品并建立体裁关联
func (r *TitleRepository) Create(title *model.Title) error {
	return r.db.Create(title).Error
}

// FindByID 根据 ID 查找作品，带派生评分和关联数据
func (r *TitleRepository) FindByID(id int) (*model.Title, error) {
	var title model.Title
	err := r.db.Model(&model.Title{}).
		Select(ratingSelect).
		Preload("Category").
		Preload("Genres").
		Where("titles.id = ?", id).
		First(&title).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &title, nil
}

// Exists 作品是否存在（评论入口的轻量检查）
func (r *TitleRepository) Exists(id int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Title{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List 作品列表，支持名称/年份/体裁/分类过滤，按年份排序
func (r *TitleRepository) List(f TitleFilter) ([]*model.Title, error) {
	var titles []*model.Title
	q := r.db.Model(&model.Title{}).
		Select(ratingSelect).
		Preload("Category").
		Preload("Genres").
		Order("titles.year ASC, titles.id ASC")

	if f.Name != "" {
		q = q.Where("titles.name LIKE ?", "%"+f.Name+"%")
	}
	if f.Year > 0 {
		q = q.Where("titles.year = ?", f.Year)
	}
	if f.Category != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.Category)
	}
	if f.Genre != "" {
		q = q.Joins("JOIN genre_titles ON genre_titles.title_id = titles.id").
			Joins("JOIN genres ON genres.id = genre_titles.genre_id").
			Where("genres.slug = ?", f.Genre)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	err := q.Find(&titles).Error
	return titles, err
}

// Update 更新作品字段并重建体裁关联
func (r *TitleRepository) Update(title *model.Title, fields map[string]interface{}, genres []model.Genre) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(title).Updates(fields).Error; err != nil {
				return err
			}
		}
		if genres != nil {
			if err := tx.Model(title).Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete 删除作品，级联删除其下全部评论和留言
func (r *TitleRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var reviewIDs []int
		if err := tx.Model(&model.Review{}).Where("title_id = ?", id).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", reviewIDs).Delete(&model.Review{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("title_id = ?", id).Delete(&model.GenreTitle{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Title{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("作品不存在")
		}
		return nil
	})
}
