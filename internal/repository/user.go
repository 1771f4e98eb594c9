package repository

import (
	"errors"
	"time"

	"github.com/user/revu/internal/apperr"
	"github.com/user/revu/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate 注册时按 (username, email) 幂等取用户
// 单条带冲突忽略的插入 + 回查，避免先查后插的竞态；
// 回查不命中说明 username 或 email 已绑定在别的配对上
func (r *UserRepository) GetOrCreate(username, email string) (*model.User, error) {
	user := &model.User{
		Username:  username,
		Email:     email,
		Role:      model.RoleUser,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(user).Error; err != nil {
		if !isUniqueViolation(err) {
			return nil, err
		}
	}

	var found model.User
	err := r.db.Where("username = ? AND email = ?", username, email).First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 注册入口按输入校验失败处理（400），管理员建号才给 409
		return nil, apperr.Validation("用户名或邮箱已绑定其他账号")
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// Create 管理员创建用户
func (r *UserRepository) Create(user *model.User, password string) error {
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = string(hash)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("用户名或邮箱已存在")
		}
		return err
	}
	return nil
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(id int) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List 用户列表，支持按用户名模糊搜索
func (r *UserRepository) List(search string, limit, offset int) ([]*model.User, error) {
	var users []*model.User
	q := r.db.Order("id ASC")
	if search != "" {
		q = q.Where("username LIKE ?", "%"+search+"%")
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&users).Error
	return users, err
}

// Update 更新资料字段并刷新 updated_at（会使已签发的确认码失效）
func (r *UserRepository) Update(user *model.User, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	err := r.db.Model(user).Updates(fields).Error
	if err != nil && isUniqueViolation(err) {
		return apperr.Conflict("用户名或邮箱已存在")
	}
	return err
}

// UpdateRole 更新用户角色（仅管理员入口可达）
func (r *UserRepository) UpdateRole(userID int, role string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now()}).Error
}

// SetPassword 更新密码哈希
func (r *UserRepository) SetPassword(userID int, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"password_hash": string(hash), "updated_at": time.Now()}).Error
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// TouchLastLogin 记录一次成功的凭证交换
func (r *UserRepository) TouchLastLogin(userID int) error {
	now := time.Now()
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("last_login", &now).Error
}

// Delete 删除用户及其名下的评论和留言
func (r *UserRepository) Delete(userID int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", userID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		var reviewIDs []int
		if err := tx.Model(&model.Review{}).Where("author_id = ?", userID).Pluck("id", &reviewIDs).Error; err != nil {
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
		return tx.Delete(&model.User{}, userID).Error
	})
}

// DeleteStaleUnconfirmed 清理从未完成确认码交换的陈旧账号
func (r *UserRepository) DeleteStaleUnconfirmed(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	res := r.db.Where("last_login IS NULL AND role = ? AND password_hash = '' AND created_at < ?",
		model.RoleUser, cutoff).Delete(&model.User{})
	return res.RowsAffected, res.Error
}
