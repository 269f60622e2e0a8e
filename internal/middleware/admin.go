package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin 放在 AuthMiddleware 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthenticated"})
			return
		}
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "admin only"})
			return
		}
		c.Next()
	}
}
