package mysql

import (
	"context"
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

// BanQuery 封禁查询条件。有效状态不在这里过滤，需要在服务层按当前时间推导
type BanQuery struct {
	ID              uint64
	UserID          uint64
	BanType         model.BanType
	CreatedBy       uint64
	RelatedReportID uint64
	StartFrom       *time.Time
	StartTo         *time.Time
}

type BanRepository struct {
	DB *gorm.DB
}

func (r *BanRepository) Create(ctx context.Context, ban *model.Ban) error {
	return r.DB.WithContext(ctx).Create(ban).Error
}

func (r *BanRepository) FindByID(ctx context.Context, id uint64) (*model.Ban, error) {
	var ban model.Ban
	err := r.DB.WithContext(ctx).First(&ban, id).Error
	return &ban, err
}

// ListUnrevoked 查询用户未撤销的封禁，banType 为空表示全部类型
func (r *BanRepository) ListUnrevoked(ctx context.Context, userID uint64, banType model.BanType) ([]model.Ban, error) {
	tx := r.DB.WithContext(ctx).Where("user_id = ? AND revoked_at IS NULL", userID)
	if banType != "" {
		tx = tx.Where("ban_type = ?", banType)
	}
	var list []model.Ban
	err := tx.Order("start_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *BanRepository) List(ctx context.Context, q BanQuery) ([]model.Ban, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Ban{})
	if q.ID != 0 {
		tx = tx.Where("id = ?", q.ID)
	}
	if q.UserID != 0 {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.BanType != "" {
		tx = tx.Where("ban_type = ?", q.BanType)
	}
	if q.CreatedBy != 0 {
		tx = tx.Where("created_by = ?", q.CreatedBy)
	}
	if q.RelatedReportID != 0 {
		tx = tx.Where("related_report_id = ?", q.RelatedReportID)
	}
	if q.StartFrom != nil {
		tx = tx.Where("start_at >= ?", *q.StartFrom)
	}
	if q.StartTo != nil {
		tx = tx.Where("start_at <= ?", *q.StartTo)
	}
	list := make([]model.Ban, 0)
	err := tx.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// UpdateUnrevoked 只更新未撤销的封禁，返回影响行数
func (r *BanRepository) UpdateUnrevoked(ctx context.Context, id uint64, fields map[string]any) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Ban{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// Revoke 条件更新保证撤销信息只写一次，返回影响行数
func (r *BanRepository) Revoke(ctx context.Context, id, revokedBy uint64, at time.Time, reasonAdmin *string) (int64, error) {
	fields := map[string]any{"revoked_at": at, "revoked_by": revokedBy}
	if reasonAdmin != nil {
		fields["reason_admin"] = *reasonAdmin
	}
	return r.UpdateUnrevoked(ctx, id, fields)
}
