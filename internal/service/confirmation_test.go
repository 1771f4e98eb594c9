package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/service"
)

func testUser() *model.User {
	return &model.User{
		ID:        1,
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      model.RoleUser,
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestMakeCodeDeterministic(t *testing.T) {
	codes := service.NewConfirmationService("secret")
	user := testUser()

	code := codes.MakeCode(user)
	assert.Len(t, code, 32)
	assert.Equal(t, code, codes.MakeCode(user))
	assert.True(t, codes.CheckCode(user, code))
}

func TestCodeInvalidatedByStateChange(t *testing.T) {
	codes := service.NewConfirmationService("secret")
	user := testUser()
	code := codes.MakeCode(user)

	// 任何状态变化都要让旧码失效
	changed := *user
	changed.PasswordHash = "bcrypt-hash"
	assert.False(t, codes.CheckCode(&changed, code))

	changed = *user
	changed.Email = "new@example.com"
	assert.False(t, codes.CheckCode(&changed, code))

	changed = *user
	changed.Role = model.RoleModerator
	assert.False(t, codes.CheckCode(&changed, code))

	changed = *user
	changed.UpdatedAt = user.UpdatedAt.Add(time.Second)
	assert.False(t, codes.CheckCode(&changed, code))
}

func TestCodeSingleUse(t *testing.T) {
	codes := service.NewConfirmationService("secret")
	user := testUser()
	code := codes.MakeCode(user)

	// 成功交换会写 last_login，旧码随即失效
	now := time.Now()
	user.LastLogin = &now
	assert.False(t, codes.CheckCode(user, code))
}

func TestCodeBoundToSecret(t *testing.T) {
	user := testUser()
	code := service.NewConfirmationService("secret-a").MakeCode(user)
	assert.False(t, service.NewConfirmationService("secret-b").CheckCode(user, code))
}
