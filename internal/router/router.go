package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/revu/internal/handler"
	"github.com/user/revu/internal/middleware"
)

// RegisterRoutes 注册所有路由
// 读接口全部开放，写权限在处理器里统一走访问决策
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 已注册路径上不支持的方法回 405 而不是 404
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "该资源不支持此操作"})
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.OptionalAuth(h.Config.AppSecret, h.Repos.User))

	// ==================== 认证 ====================
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/token", h.Token)
	}

	// ==================== 用户 ====================
	// /users/me 复用 :username 段，在处理器内分流
	users := v1.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:username", h.GetUser)
		users.PATCH("/:username", h.UpdateUser)
		users.DELETE("/:username", h.DeleteUser)
	}

	// ==================== 目录 ====================
	categories := v1.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.DELETE("/:slug", h.DeleteCategory)
	}

	genres := v1.Group("/genres")
	{
		genres.GET("", h.ListGenres)
		genres.POST("", h.CreateGenre)
		genres.DELETE("/:slug", h.DeleteGenre)
	}

	titles := v1.Group("/titles")
	{
		titles.GET("", h.ListTitles)
		titles.POST("", h.CreateTitle)
		titles.GET("/:id", h.GetTitle)
		titles.PATCH("/:id", h.UpdateTitle)
		titles.DELETE("/:id", h.DeleteTitle)

		// ==================== 评论与留言 ====================
		reviews := titles.Group("/:id/reviews")
		{
			reviews.GET("", h.ListReviews)
			reviews.POST("", h.CreateReview)
			reviews.GET("/:review_id", h.GetReview)
			reviews.PATCH("/:review_id", h.UpdateReview)
			reviews.DELETE("/:review_id", h.DeleteReview)

			comments := reviews.Group("/:review_id/comments")
			{
				comments.GET("", h.ListComments)
				comments.POST("", h.CreateComment)
				comments.GET("/:comment_id", h.GetComment)
				comments.PATCH("/:comment_id", h.UpdateComment)
				comments.DELETE("/:comment_id", h.DeleteComment)
			}
		}
	}
}
