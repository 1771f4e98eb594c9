package handler

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// RegisterValidators 在 gin 的校验引擎上注册自定义规则
// 校验全部发生在任何写库动作之前
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// 发行年份不能晚于当前年份
	_ = v.RegisterValidation("year_lte_now", func(fl validator.FieldLevel) bool {
		return int(fl.Field().Int()) <= time.Now().Year()
	})

	// slug 格式
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	// "me" 是保留用户名（任意大小写）
	_ = v.RegisterValidation("username_not_me", func(fl validator.FieldLevel) bool {
		return !strings.EqualFold(fl.Field().String(), "me")
	})
}
