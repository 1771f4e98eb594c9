package service

import (
	"log"
	"time"

	"github.com/user/revu/internal/repository"
)

// 注册后超过这么多天没有完成确认码交换的账号视为废弃
const staleAccountDays = 30

// CleanupService 清理服务
type CleanupService struct {
	repos *repository.Repositories
}

// NewCleanupService 创建清理服务
func NewCleanupService(repos *repository.Repositories) *CleanupService {
	return &CleanupService{repos: repos}
}

// Start 启动定时清理任务
func (s *CleanupService) Start() {
	ticker := time.NewTicker(24 * time.Hour)

	// 启动时先运行一次
	go s.runCleanup()

	go func() {
		for range ticker.C {
			s.runCleanup()
		}
	}()
}

func (s *CleanupService) runCleanup() {
	log.Println("[CleanupService] 开始清理废弃账号...")

	affected, err := s.repos.User.DeleteStaleUnconfirmed(staleAccountDays)
	if err != nil {
		log.Printf("[CleanupService] 清理废弃账号失败: %v", err)
	} else if affected > 0 {
		log.Printf("[CleanupService] 已清理 %d 个从未激活的账号", affected)
	}
}
