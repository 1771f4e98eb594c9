package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		// 记录日志
		latency := time.Since(start)
		status := c.Writer.Status()
		size := c.Writer.Size()

		log.Printf("[%s] %s %s %d %dB %v",
			c.Request.Method,
			path,
			c.ClientIP(),
			status,
			size,
			latency,
		)
	}
}
