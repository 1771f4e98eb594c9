package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/user/revu/internal/model"
)

// ConfirmationService 签发并校验注册确认码
// 确认码是用户当前状态的确定性函数，不落库：
// 资料、密码或角色任何一项变化都会让旧码失效（防重放）
type ConfirmationService struct {
	secret string
}

// NewConfirmationService 创建确认码服务
func NewConfirmationService(secret string) *ConfirmationService {
	return &ConfirmationService{secret: secret}
}

// MakeCode 基于用户当前状态生成确认码
// last_login 也参与哈希：成功交换一次后旧码随即失效（一次性）
func (s *ConfirmationService) MakeCode(user *model.User) string {
	lastLogin := int64(0)
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.UnixNano()
	}
	mac := hmac.New(sha256.New, []byte(s.secret))
	fmt.Fprintf(mac, "%d|%s|%s|%s|%s|%d|%d",
		user.ID, user.Username, user.Email, user.Role,
		user.PasswordHash, user.UpdatedAt.UnixNano(), lastLogin)
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

// CheckCode 校验确认码是否仍与用户当前状态匹配
func (s *ConfirmationService) CheckCode(user *model.User, code string) bool {
	return hmac.Equal([]byte(s.MakeCode(user)), []byte(code))
}
