package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

// ActionQuery 审计日志查询条件
type ActionQuery struct {
	ID          uint64
	ActorID     uint64
	TargetType  model.TargetType
	TargetID    uint64
	ActionType  model.ActionType
	From        *time.Time
	To          *time.Time
	RecentFirst bool
	Offset      int
	Limit       int
}

// ActionRepository 审计日志只有追加和查询，没有修改和删除
type ActionRepository struct {
	DB *gorm.DB
}

// Append 写审计记录，同一事务写 outbox
func (r *ActionRepository) Append(ctx context.Context, action *model.ModerationAction) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(action).Error; err != nil {
			return err
		}
		return r.insertOutbox(tx, action)
	})
}

func (r *ActionRepository) insertOutbox(tx *gorm.DB, action *model.ModerationAction) error {
	payload, err := json.Marshal(map[string]any{
		"event_time":  action.CreatedAt.UTC().Format(time.RFC3339Nano),
		"action_id":   action.ID,
		"actor_id":    action.ActorID,
		"action_type": action.ActionType,
		"target_type": action.TargetType,
		"target_id":   action.TargetID,
		"details":     action.Details,
	})
	if err != nil {
		return err
	}
	return tx.Create(&model.ModerationOutbox{
		ActionID:  action.ID,
		EventType: action.ActionType,
		Payload:   string(payload),
		Status:    model.OutboxPending,
	}).Error
}

func (r *ActionRepository) List(ctx context.Context, q ActionQuery) ([]model.ModerationAction, error) {
	tx := r.DB.WithContext(ctx).Model(&model.ModerationAction{})
	if q.ID != 0 {
		tx = tx.Where("id = ?", q.ID)
	}
	if q.ActorID != 0 {
		tx = tx.Where("actor_id = ?", q.ActorID)
	}
	if q.TargetType != "" {
		tx = tx.Where("target_type = ?", q.TargetType)
	}
	if q.TargetID != 0 {
		tx = tx.Where("target_id = ?", q.TargetID)
	}
	if q.ActionType != "" {
		tx = tx.Where("action_type = ?", q.ActionType)
	}
	if q.From != nil {
		tx = tx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at <= ?", *q.To)
	}
	if q.RecentFirst {
		tx = tx.Order("created_at DESC, id DESC")
	} else {
		tx = tx.Order("created_at ASC, id ASC")
	}
	if q.Limit > 0 {
		tx = tx.Offset(q.Offset).Limit(q.Limit)
	}
	list := make([]model.ModerationAction, 0)
	err := tx.Find(&list).Error
	return list, err
}
