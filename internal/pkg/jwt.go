package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

const AccessTTL = time.Minute * 30

const (
	RoleUser  = 0
	RoleAdmin = 1
)

type Claims struct {
	UserID uint64 `json:"user_id"`
	Role   int    `json:"role"` // 0=user, 1=admin
	jwt.RegisteredClaims
}

// TokenSigner access token 的签发和解析，密钥来自配置
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

// GenerateAccess 签发 access token，登录服务和测试使用
func (s *TokenSigner) GenerateAccess(userID uint64, role int, now time.Time) (string, error) {
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			Subject:   "access",
		},
	})
	return access.SignedString(s.secret)
}

// ParseAccess 解析 access
func (s *TokenSigner) ParseAccess(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, err
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != "access" {
		return nil, ErrTokenParseFailure
	}
	return claims, nil
}
