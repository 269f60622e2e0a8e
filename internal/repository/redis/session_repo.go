package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
)

const (
	UserTokenPrefix = "login:user:token"
	UserTokenTTL    = 30 * time.Minute
)

// SessionRepository 登录态由登录服务写入，这里只负责校验和续期
type SessionRepository struct {
	RDB *redis.Client
}

func (r *SessionRepository) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, userID)
}

// PutToken 写入用户当前有效的 access token
func (r *SessionRepository) PutToken(ctx context.Context, userID uint64, token string) error {
	if err := r.RDB.Set(ctx, r.key(userID), token, UserTokenTTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) GetToken(ctx context.Context, userID uint64) (string, error) {
	token, err := r.RDB.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *SessionRepository) ExtendToken(ctx context.Context, userID uint64) error {
	if err := r.RDB.Expire(ctx, r.key(userID), UserTokenTTL).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}
