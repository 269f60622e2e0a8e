package service

import (
	"context"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/repository/mysql"

	"gorm.io/gorm"
)

// ActionFilter 审计查询条件，RecentFirst 为 nil 时按时间倒序
type ActionFilter struct {
	ID          uint64
	ActorID     uint64
	TargetType  model.TargetType
	TargetID    uint64
	ActionType  model.ActionType
	From        *time.Time
	To          *time.Time
	RecentFirst *bool
	Offset      int
	Limit       int
}

type AuditService struct {
	db  *gorm.DB
	now Clock
}

func NewAuditService(db *gorm.DB, now Clock) *AuditService {
	if now == nil {
		now = utcNow
	}
	return &AuditService{db: db, now: now}
}

// Record 追加一条审计记录
func (s *AuditService) Record(ctx context.Context, actorID uint64, targetType model.TargetType, targetID uint64, actionType model.ActionType, details map[string]any) (*model.ModerationAction, error) {
	return s.RecordTx(ctx, s.db, actorID, targetType, targetID, actionType, details)
}

// RecordTx 在调用方的事务里追加审计记录
func (s *AuditService) RecordTx(ctx context.Context, tx *gorm.DB, actorID uint64, targetType model.TargetType, targetID uint64, actionType model.ActionType, details map[string]any) (*model.ModerationAction, error) {
	if details == nil {
		details = map[string]any{}
	}
	action := &model.ModerationAction{
		ActorID:    actorID,
		TargetType: targetType,
		TargetID:   targetID,
		ActionType: actionType,
		Details:    details,
		CreatedAt:  s.now(),
	}
	repo := &mysql.ActionRepository{DB: tx}
	if err := repo.Append(ctx, action); err != nil {
		return nil, err
	}
	return action, nil
}

func (s *AuditService) Query(ctx context.Context, f ActionFilter) ([]model.ModerationAction, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, invalid("from", "must not be after to")
	}
	recent := true
	if f.RecentFirst != nil {
		recent = *f.RecentFirst
	}
	repo := &mysql.ActionRepository{DB: s.db}
	return repo.List(ctx, mysql.ActionQuery{
		ID:          f.ID,
		ActorID:     f.ActorID,
		TargetType:  f.TargetType,
		TargetID:    f.TargetID,
		ActionType:  f.ActionType,
		From:        f.From,
		To:          f.To,
		RecentFirst: recent,
		Offset:      f.Offset,
		Limit:       f.Limit,
	})
}
