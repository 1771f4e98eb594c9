package repository

import (
	"errors"

	"github.com/user/revu/internal/apperr"
	"github.com/user/revu/internal/model"
	"gorm.io/gorm"
)

type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Create 创建体裁，slug 冲突返回 Conflict
func (r *GenreRepository) Create(genre *model.Genre) error {
	if err := r.db.Create(genre).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("体裁标识已存在")
		}
		return err
	}
	return nil
}

// List 体裁列表，按名称排序，支持模糊搜索
func (r *GenreRepository) List(search string, limit, offset int) ([]*model.Genre, error) {
	var genres []*model.Genre
	q := r.db.Order("name ASC")
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&genres).Error
	return genres, err
}

// FindBySlugs 按 slug 批量查找体裁，缺失任何一个都算 NotFound
func (r *GenreRepository) FindBySlugs(slugs []string) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, apperr.NotFound("体裁不存在")
	}
	return genres, nil
}

// DeleteBySlug 删除体裁，只摘除关联行，作品本身保留
func (r *GenreRepository) DeleteBySlug(slug string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var genre model.Genre
		err := tx.Where("slug = ?", slug).First(&genre).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("体裁不存在")
		}
		if err != nil {
			return err
		}
		if err := tx.Where("genre_id = ?", genre.ID).Delete(&model.GenreTitle{}).Error; err != nil {
			return err
		}
		return tx.Delete(&genre).Error
	})
}
