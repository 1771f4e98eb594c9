package repository

import (
	"errors"

	"github.com/user/revu/internal/apperr"
	"github.com/user/revu/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create 创建分类，slug 冲突返回 Conflict
func (r *CategoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("分类标识已存在")
		}
		return err
	}
	return nil
}

// List 分类列表，按名称排序，支持模糊搜索
func (r *CategoryRepository) List(search string, limit, offset int) ([]*model.Category, error) {
	var categories []*model.Category
	q := r.db.Order("name ASC")
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&categories).Error
	return categories, err
}

// FindBySlug 根据 slug 查找分类
func (r *CategoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteBySlug 删除分类，引用它的作品被置空而不是级联删除
func (r *CategoryRepository) DeleteBySlug(slug string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		category, err := txFindCategory(tx, slug)
		if err != nil {
			return err
		}
		if err := tx.Model(&model.Title{}).Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
}

func txFindCategory(tx *gorm.DB, slug string) (*model.Category, error) {
	var category model.Category
	err := tx.Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("分类不存在")
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}
