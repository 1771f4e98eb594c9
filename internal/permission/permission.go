// Package permission 是访问控制策略：一个纯决策函数，
// 按 (角色, 资源类型, 操作, 归属) 给出允许或拒绝，不产生任何副作用。
package permission

import (
	"github.com/user/revu/internal/model"
)

// Resource 资源类型
type Resource int

const (
	ResourceCategory Resource = iota
	ResourceGenre
	ResourceTitle
	ResourceReview
	ResourceComment
	ResourceUser
)

// Operation 操作类型
type Operation int

const (
	OpRead Operation = iota
	OpCreate
	OpUpdate
	OpDelete
)

// Decide 访问决策
// actor 为 nil 表示匿名请求；ownerID 仅对评论/留言有意义，其余传 0。
// 能力按"或"组合：命中任意一条即放行；未认证的写操作一律拒绝。
func Decide(actor *model.User, resource Resource, op Operation, ownerID int) bool {
	if op == OpRead {
		// 用户资料只有管理员可读（/users/me 路径在路由层单独放行）
		if resource == ResourceUser {
			return actor.IsAdmin()
		}
		return true
	}

	// 写操作必须先认证，请求体里的角色声明不作数
	if actor == nil {
		return false
	}

	switch resource {
	case ResourceCategory, ResourceGenre, ResourceTitle, ResourceUser:
		return actor.IsAdmin()
	case ResourceReview, ResourceComment:
		if op == OpCreate {
			return true
		}
		return actor.ID == ownerID || actor.IsModerator() || actor.IsAdmin()
	}
	return false
}
