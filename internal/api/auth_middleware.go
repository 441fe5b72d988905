package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	currentUserContextKey = "current-user"
)

// RequestUser 存储请求上下文中的认证用户信息。
// 身份信息完全来自 JWT Claims，不回查数据库。
type RequestUser struct {
	ID       uint
	Nickname string
}

// AuthMiddleware JWT 认证中间件
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "缺少授权头",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "无效的授权头格式",
			})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "缺少 Bearer Token",
			})
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			logrus.WithError(err).Warn("failed to parse jwt token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeSessionExpired,
				Message: "Token 无效或已过期",
			})
			return
		}

		c.Set(currentUserContextKey, &RequestUser{
			ID:       claims.UserID,
			Nickname: claims.Nickname,
		})
		c.Next()
	}
}

// OptionalAuthMiddleware 可选认证中间件。
// 带有效 Token 时注入用户身份，否则按匿名访客放行，
// 公开列表和详情接口据此决定可见范围与点赞收藏状态。
func (h *HTTPHandler) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := h.authManager.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logrus.WithError(err).Debug("ignoring invalid token on public endpoint")
			c.Next()
			return
		}

		c.Set(currentUserContextKey, &RequestUser{
			ID:       claims.UserID,
			Nickname: claims.Nickname,
		})
		c.Next()
	}
}

// CurrentUser 从上下文获取当前认证用户
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}

// viewerID 返回当前访问者的用户 ID，匿名访客为 0
func viewerID(c *gin.Context) uint {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}
