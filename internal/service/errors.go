package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"Lee_Forum/internal/model"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrBanNotFound    = errors.New("ban not found")
	// ErrBanRevoked 撤销后的封禁对修改和再次撤销都视为不存在
	ErrBanRevoked     = fmt.Errorf("%w: already revoked", ErrBanNotFound)
	ErrTargetNotFound = errors.New("target not found")
	ErrVoteNotFound   = errors.New("vote not found")
	ErrForbidden      = errors.New("forbidden")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 参数校验失败，在访问存储之前返回
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

// DuplicateActiveBanError 同类型已有生效中的封禁，附带已有记录
type DuplicateActiveBanError struct {
	Existing []model.Ban
}

func (e *DuplicateActiveBanError) Error() string {
	if len(e.Existing) == 0 {
		return "duplicate active ban"
	}
	return fmt.Sprintf("user %d already has an active %s ban", e.Existing[0].UserID, e.Existing[0].BanType)
}

// BanDeniedError 门禁拒绝，只带给用户看的原因和到期时间
type BanDeniedError struct {
	Action     Action
	BanType    model.BanType
	ReasonUser string
	EndAt      *time.Time
}

func (e *BanDeniedError) Error() string {
	if e.EndAt == nil {
		return fmt.Sprintf("%s denied: %s", e.Action, e.BanType)
	}
	return fmt.Sprintf("%s denied: %s until %s", e.Action, e.BanType, e.EndAt.UTC().Format(time.RFC3339))
}

func (e *BanDeniedError) Is(target error) bool {
	return target == ErrForbidden
}
