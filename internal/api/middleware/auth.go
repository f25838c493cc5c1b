package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// BearerToken 从 Authorization 头取出 token，格式不对时返回空串
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth 会话认证中间件，token 必须对应一个有效会话
func Auth(idp service.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.AuthError(c, "Authentication required")
			c.Abort()
			return
		}

		user, err := idp.Authenticate(token)
		if err != nil {
			response.AuthError(c, "Invalid or expired session")
			c.Abort()
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(idp service.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := BearerToken(c); token != "" {
			if user, err := idp.Authenticate(token); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// RequireModerator 需在 Auth 之后使用
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			response.AuthError(c, "Authentication required")
			c.Abort()
			return
		}
		if !user.CanModerate() {
			response.PermissionError(c, "Moderator access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func setUser(c *gin.Context, user *model.User) {
	c.Set(UserIDKey, user.ID)
	c.Set(UserKey, user)
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetUser 从上下文获取当前用户
func GetUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}
