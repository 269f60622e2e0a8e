package mysql

import (
	"context"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// List 查询待投递的事件，失败的事件在重试次数内继续投递
func (r *OutboxRepository) List(ctx context.Context, batchSize, maxRetry int) ([]model.ModerationOutbox, error) {
	var list []model.ModerationOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, maxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate outbox记录消息失败重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate outbox成功记录消息更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}
