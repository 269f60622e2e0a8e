package middleware

import (
	"context"
	"errors"
	"net/http"

	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GateChecker interface {
	Check(ctx context.Context, actorID uint64, action service.Action) error
}

// EnforceGate 被封禁的用户不能执行 action，返回封禁类型、给用户看的原因和到期时间
func EnforceGate(gate GateChecker, action service.Action, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthenticated"})
			return
		}
		err := gate.Check(c.Request.Context(), uid, action)
		if err == nil {
			c.Next()
			return
		}
		var denied *service.BanDeniedError
		if errors.As(err, &denied) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"msg":      "action not allowed",
				"action":   denied.Action,
				"ban_type": denied.BanType,
				"reason":   denied.ReasonUser,
				"until":    denied.EndAt,
			})
			return
		}
		logger.Error("gate check failed", zap.Uint64("user_id", uid), zap.String("action", string(action)), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}
