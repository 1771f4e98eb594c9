package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/permission"
)

func TestDecideRead(t *testing.T) {
	anon := (*model.User)(nil)
	user := &model.User{ID: 1, Role: model.RoleUser}
	admin := &model.User{ID: 2, Role: model.RoleAdmin}

	// 目录和评论的读取对所有人开放
	for _, res := range []permission.Resource{
		permission.ResourceCategory,
		permission.ResourceGenre,
		permission.ResourceTitle,
		permission.ResourceReview,
		permission.ResourceComment,
	} {
		assert.True(t, permission.Decide(anon, res, permission.OpRead, 0))
		assert.True(t, permission.Decide(user, res, permission.OpRead, 0))
	}

	// 用户资料读取仅管理员
	assert.False(t, permission.Decide(anon, permission.ResourceUser, permission.OpRead, 0))
	assert.False(t, permission.Decide(user, permission.ResourceUser, permission.OpRead, 0))
	assert.True(t, permission.Decide(admin, permission.ResourceUser, permission.OpRead, 0))
}

func TestDecideAnonymousNeverWrites(t *testing.T) {
	resources := []permission.Resource{
		permission.ResourceCategory,
		permission.ResourceGenre,
		permission.ResourceTitle,
		permission.ResourceReview,
		permission.ResourceComment,
		permission.ResourceUser,
	}
	ops := []permission.Operation{permission.OpCreate, permission.OpUpdate, permission.OpDelete}

	for _, res := range resources {
		for _, op := range ops {
			assert.False(t, permission.Decide(nil, res, op, 0),
				"匿名写操作必须拒绝 resource=%d op=%d", res, op)
		}
	}
}

func TestDecideCatalogWrites(t *testing.T) {
	tests := []struct {
		name  string
		actor *model.User
		want  bool
	}{
		{"普通用户", &model.User{ID: 1, Role: model.RoleUser}, false},
		{"审核员", &model.User{ID: 2, Role: model.RoleModerator}, false},
		{"管理员", &model.User{ID: 3, Role: model.RoleAdmin}, true},
		{"超级用户标记", &model.User{ID: 4, Role: model.RoleUser, IsSuperuser: true}, true},
		{"后台用户标记", &model.User{ID: 5, Role: model.RoleUser, IsStaff: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, res := range []permission.Resource{
				permission.ResourceCategory,
				permission.ResourceGenre,
				permission.ResourceTitle,
			} {
				assert.Equal(t, tt.want, permission.Decide(tt.actor, res, permission.OpCreate, 0))
				assert.Equal(t, tt.want, permission.Decide(tt.actor, res, permission.OpUpdate, 0))
				assert.Equal(t, tt.want, permission.Decide(tt.actor, res, permission.OpDelete, 0))
			}
		})
	}
}

func TestDecideReviewOwnership(t *testing.T) {
	owner := &model.User{ID: 10, Role: model.RoleUser}
	other := &model.User{ID: 11, Role: model.RoleUser}
	moderator := &model.User{ID: 12, Role: model.RoleModerator}
	admin := &model.User{ID: 13, Role: model.RoleAdmin}

	// 任何已认证用户都可以发表
	assert.True(t, permission.Decide(other, permission.ResourceReview, permission.OpCreate, 0))
	assert.True(t, permission.Decide(other, permission.ResourceComment, permission.OpCreate, 0))

	// 修改和删除：作者本人、审核员或管理员，能力按"或"组合
	for _, op := range []permission.Operation{permission.OpUpdate, permission.OpDelete} {
		assert.True(t, permission.Decide(owner, permission.ResourceReview, op, owner.ID))
		assert.False(t, permission.Decide(other, permission.ResourceReview, op, owner.ID))
		assert.True(t, permission.Decide(moderator, permission.ResourceReview, op, owner.ID))
		assert.True(t, permission.Decide(admin, permission.ResourceReview, op, owner.ID))

		assert.True(t, permission.Decide(owner, permission.ResourceComment, op, owner.ID))
		assert.False(t, permission.Decide(other, permission.ResourceComment, op, owner.ID))
		assert.True(t, permission.Decide(moderator, permission.ResourceComment, op, owner.ID))
	}
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, (&model.User{Role: model.RoleAdmin}).IsAdmin())
	assert.True(t, (&model.User{Role: model.RoleUser, IsSuperuser: true}).IsAdmin())
	assert.True(t, (&model.User{Role: model.RoleUser, IsStaff: true}).IsAdmin())
	assert.False(t, (&model.User{Role: model.RoleModerator}).IsAdmin())
	assert.True(t, (&model.User{Role: model.RoleModerator}).IsModerator())
	assert.False(t, (&model.User{Role: model.RoleAdmin}).IsModerator())

	// nil 用户没有任何能力
	var nobody *model.User
	assert.False(t, nobody.IsAdmin())
	assert.False(t, nobody.IsModerator())
}
