package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/revu/internal/model"
	"github.com/user/revu/internal/repository"
)

// 上下文键
const (
	ctxUserKey   = "user"
	ctxUserIDKey = "user_id"
)

// Claims JWT 声明
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAuth 必须携带有效 Bearer Token 的中间件
// 校验通过后从数据库加载用户行，供后续权限判定使用
func RequireAuth(jwtSecret string, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, jwtSecret, users)
		if err != nil || user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未提供有效凭证"})
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxUserIDKey, user.ID)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（匿名请求放行，只读接口用）
func OptionalAuth(jwtSecret string, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := resolveUser(c, jwtSecret, users); err == nil && user != nil {
			c.Set(ctxUserKey, user)
			c.Set(ctxUserIDKey, user.ID)
		}
		c.Next()
	}
}

// resolveUser 解析 Token 并加载对应用户
// Token 有效但用户已被删除时视为未认证
func resolveUser(c *gin.Context, jwtSecret string, users *repository.UserRepository) (*model.User, error) {
	claims, err := extractClaims(c, jwtSecret)
	if err != nil {
		return nil, err
	}
	return users.FindByID(claims.UserID)
}

// extractClaims 从 Authorization Header 中提取 JWT Claims
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, jwt.ErrTokenMalformed
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// CurrentUser 从上下文获取当前用户（未登录返回 nil）
func CurrentUser(c *gin.Context) *model.User {
	if v, exists := c.Get(ctxUserKey); exists {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID 从上下文获取用户 ID（未登录返回 0）
func GetUserID(c *gin.Context) int {
	if userID, exists := c.Get(ctxUserIDKey); exists {
		return userID.(int)
	}
	return 0
}

// GenerateToken 为用户签发访问 Token
func GenerateToken(user *model.User, jwtSecret string, expiry time.Duration) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
