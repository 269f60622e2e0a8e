package middleware

import (
	"context"
	"net/http"
	"strings"

	"Lee_Forum/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

// SessionStore 单点登录校验：redis 里只保存用户最新的 token
type SessionStore interface {
	GetToken(ctx context.Context, userID uint64) (string, error)
	ExtendToken(ctx context.Context, userID uint64) error
}

// AuthMiddleware 校验 access token；sessions 为 nil 时不做单点登录校验
func AuthMiddleware(signer *pkg.TokenSigner, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			return
		}

		tokenStr := parts[1]
		claims, err := signer.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		}

		if sessions != nil {
			ctx := c.Request.Context()
			// redis校验是否是正确的token
			origin, err := sessions.GetToken(ctx, claims.UserID)
			if err != nil || origin != tokenStr {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Account has been logging elsewhere"})
				return
			}
			// 校验通过后更新过期时间
			if err := sessions.ExtendToken(ctx, claims.UserID); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
				return
			}
		}

		// 注入 user_id 和 role
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// CurrentUser 取认证后的用户 id
func CurrentUser(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

func IsAdmin(c *gin.Context) bool {
	return c.GetInt(ContextRoleKey) == pkg.RoleAdmin
}
