package model

import (
	"time"
)

// 用户角色
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole 判断角色取值是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username" gorm:"unique"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Bio          string    `json:"bio" db:"bio"`
	Role         string    `json:"role" db:"role"`
	IsSuperuser  bool      `json:"-" db:"is_superuser"`
	IsStaff      bool      `json:"-" db:"is_staff"`
	PasswordHash string    `json:"-" db:"password_hash"`
	LastLogin    *time.Time `json:"-" db:"last_login"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin 管理员能力：admin 角色或超级用户/后台用户标记
// 计算属性，不落库
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.Role == RoleAdmin || u.IsSuperuser || u.IsStaff
}

// IsModerator 审核员能力
func (u *User) IsModerator() bool {
	if u == nil {
		return false
	}
	return u.Role == RoleModerator
}
