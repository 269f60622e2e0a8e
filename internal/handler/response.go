package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"Lee_Forum/internal/middleware"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError 业务错误到 HTTP 状态码的映射
func writeError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var dup *service.DuplicateActiveBanError
	var denied *service.BanDeniedError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation failed", "errors": ve.Fields})
	case errors.As(err, &dup):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "user already has an active ban of this type", "existing": dup.Existing})
	case errors.Is(err, service.ErrBanRevoked):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "ban already revoked"})
	case errors.As(err, &denied):
		c.JSON(http.StatusForbidden, gin.H{"msg": "action not allowed", "ban_type": denied.BanType, "reason": denied.ReasonUser, "until": denied.EndAt})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"msg": "no permission"})
	case errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrBanNotFound),
		errors.Is(err, service.ErrTargetNotFound),
		errors.Is(err, service.ErrVoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": msg})
}

func currentUser(c *gin.Context) uint64 {
	uid, _ := middleware.CurrentUser(c)
	return uid
}

// pathID 解析路径里的 id，失败时已经写了 400
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryParser 收集查询参数，第一个错误之后的解析都忽略
type queryParser struct {
	c   *gin.Context
	err error
}

func (p *queryParser) uintParam(name string) uint64 {
	s := p.c.Query(name)
	if s == "" || p.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		p.err = errors.New("invalid " + name)
	}
	return v
}

func (p *queryParser) intParam(name string) int {
	s := p.c.Query(name)
	if s == "" || p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		p.err = errors.New("invalid " + name)
	}
	return v
}

func (p *queryParser) timeParam(name string) *time.Time {
	s := p.c.Query(name)
	if s == "" || p.err != nil {
		return nil
	}
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		p.err = errors.New("invalid " + name)
		return nil
	}
	v = v.UTC()
	return &v
}

func (p *queryParser) boolParam(name string) *bool {
	s := p.c.Query(name)
	if s == "" || p.err != nil {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		p.err = errors.New("invalid " + name)
		return nil
	}
	return &v
}
