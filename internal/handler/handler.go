package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/revu/internal/config"
	"github.com/user/revu/internal/middleware"
	"github.com/user/revu/internal/permission"
	"github.com/user/revu/internal/repository"
	"github.com/user/revu/internal/service"
	"github.com/user/revu/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos  *repository.Repositories
	Config *config.Config
	Mailer service.Mailer
	Titles *service.TitleService
	Codes  *service.ConfirmationService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	return &Handler{
		Repos:  repos,
		Config: cfg,
		Mailer: service.NewMailer(cfg),
		Titles: service.NewTitleService(repos.Title),
		Codes:  service.NewConfirmationService(cfg.AppSecret),
	}
}

// authorize 请求级访问决策
// 拒绝时直接写响应：匿名 401，已认证 403；放行返回 true
func (h *Handler) authorize(c *gin.Context, resource permission.Resource, op permission.Operation, ownerID int) bool {
	actor := middleware.CurrentUser(c)
	if permission.Decide(actor, resource, op, ownerID) {
		return true
	}
	if actor == nil {
		utils.Unauthorized(c, "")
	} else {
		utils.Forbidden(c, "")
	}
	return false
}

// pagination 解析 limit/offset 查询参数
func pagination(c *gin.Context) (int, int) {
	limit := queryInt(c, "limit")
	offset := queryInt(c, "offset")
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func queryInt(c *gin.Context, key string) int {
	v, _ := strconv.Atoi(c.Query(key))
	return v
}
