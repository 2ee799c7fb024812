package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/videohub/pkg/auth"
	"github.com/d60-Lab/videohub/pkg/response"
)

const actorKey = "actor_id"

// ActorID 当前请求的用户 id，匿名请求返回空串
func ActorID(c *gin.Context) string {
	return c.GetString(actorKey)
}

// Auth 要求携带有效的 Bearer 令牌
func Auth(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := tm.Parse(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(actorKey, claims.Subject)
		c.Next()
	}
}

// OptionalAuth 有令牌就解析，没有或无效则按匿名处理
func OptionalAuth(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearer(c); ok {
			if claims, err := tm.Parse(token); err == nil {
				c.Set(actorKey, claims.Subject)
			}
		}
		c.Next()
	}
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
