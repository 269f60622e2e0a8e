package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	redisrepo "Lee_Forum/internal/repository/redis"
	"Lee_Forum/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		uid, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "admin": IsAdmin(c)})
	})
	r.GET("/x", handlers...)
	return r
}

func do(t *testing.T, r http.Handler, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestAuthMiddleware_Token(t *testing.T) {
	signer := pkg.NewTokenSigner("secret")
	r := newEngine(AuthMiddleware(signer, nil))

	w, _ := do(t, r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := signer.GenerateAccess(7, pkg.RoleUser, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	w, _ = do(t, r, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := pkg.NewTokenSigner("other").GenerateAccess(7, pkg.RoleAdmin, time.Now())
	require.NoError(t, err)
	w, _ = do(t, r, other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok, err := signer.GenerateAccess(7, pkg.RoleAdmin, time.Now())
	require.NoError(t, err)
	w, body := do(t, r, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 7, body["user_id"])
	assert.Equal(t, true, body["admin"])
}

func TestAuthMiddleware_SingleSession(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := &redisrepo.SessionRepository{RDB: rdb}

	signer := pkg.NewTokenSigner("secret")
	r := newEngine(AuthMiddleware(signer, sessions))

	old, err := signer.GenerateAccess(7, pkg.RoleUser, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	cur, err := signer.GenerateAccess(7, pkg.RoleUser, time.Now())
	require.NoError(t, err)

	// 还没登录
	w, _ := do(t, r, cur)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, sessions.PutToken(context.Background(), 7, cur))
	mr.FastForward(10 * time.Minute)

	w, _ = do(t, r, old)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, cur)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, redisrepo.UserTokenTTL, mr.TTL("login:user:token:7"))
}

func TestRequireAdmin(t *testing.T) {
	signer := pkg.NewTokenSigner("secret")
	r := newEngine(AuthMiddleware(signer, nil), RequireAdmin())

	user, _ := signer.GenerateAccess(7, pkg.RoleUser, time.Now())
	w, _ := do(t, r, user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin, _ := signer.GenerateAccess(1, pkg.RoleAdmin, time.Now())
	w, _ = do(t, r, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	// 没有经过认证
	w, _ = do(t, newEngine(RequireAdmin()), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type stubGate struct {
	err     error
	checked []uint64
}

func (g *stubGate) Check(ctx context.Context, actorID uint64, action service.Action) error {
	g.checked = append(g.checked, actorID)
	return g.err
}

func TestEnforceGate(t *testing.T) {
	signer := pkg.NewTokenSigner("secret")
	tok, _ := signer.GenerateAccess(7, pkg.RoleUser, time.Now())
	until := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	gate := &stubGate{}
	r := newEngine(AuthMiddleware(signer, nil), EnforceGate(gate, service.ActionPost, zap.NewNop()))
	w, _ := do(t, r, tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint64{7}, gate.checked)

	gate.err = &service.BanDeniedError{Action: service.ActionPost, BanType: model.BanSuspend, ReasonUser: "spam", EndAt: &until}
	w, body := do(t, r, tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "suspend", body["ban_type"])
	assert.Equal(t, "spam", body["reason"])
	assert.Equal(t, "2030-01-02T03:04:05Z", body["until"])

	gate.err = &service.BanDeniedError{Action: service.ActionPost, BanType: model.BanPost}
	w, body = do(t, r, tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, body["until"])

	gate.err = errors.New("db down")
	w, _ = do(t, r, tok)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
