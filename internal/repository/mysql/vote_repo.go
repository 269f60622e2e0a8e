package mysql

import (
	"context"
	"errors"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository 帖子投票和评论投票共用，Kind 决定落在哪张表
type VoteRepository struct {
	DB   *gorm.DB
	Kind model.VoteKind
}

func (r *VoteRepository) newRow(userID, targetID uint64, value int8) any {
	if r.Kind == model.VoteKindComment {
		return &model.CommentVote{CommentID: targetID, UserID: userID, Value: value}
	}
	return &model.PostVote{PostID: targetID, UserID: userID, Value: value}
}

func (r *VoteRepository) where(tx *gorm.DB, userID, targetID uint64) *gorm.DB {
	return tx.Where(r.Kind.TargetColumn()+" = ? AND user_id = ?", targetID, userID)
}

// Upsert 依赖唯一索引(target, user_id)：先 insert-on-conflict-do-nothing，冲突则覆盖 value。
// inserted=true 表示本次新建
func (r *VoteRepository) Upsert(ctx context.Context, userID, targetID uint64, value int8) (bool, error) {
	var inserted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: r.Kind.TargetColumn()}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(r.newRow(userID, targetID, value))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			inserted = true
			return nil
		}
		return r.where(tx.Model(r.newRow(0, 0, 0)), userID, targetID).
			Updates(map[string]any{"value": value, "updated_at": tx.NowFunc()}).Error
	})
	return inserted, err
}

// Delete 撤销投票，返回删除的行数
func (r *VoteRepository) Delete(ctx context.Context, userID, targetID uint64) (int64, error) {
	res := r.where(r.DB.WithContext(ctx), userID, targetID).Delete(r.newRow(0, 0, 0))
	return res.RowsAffected, res.Error
}

// Get 查询用户对内容的投票值，found=false 表示没有投票
func (r *VoteRepository) Get(ctx context.Context, userID, targetID uint64) (value int8, found bool, err error) {
	var row struct{ Value int8 }
	err = r.where(r.DB.WithContext(ctx).Model(r.newRow(0, 0, 0)), userID, targetID).
		Select("value").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.Value, true, nil
}

// Count 统计该内容下的投票行数
func (r *VoteRepository) Count(ctx context.Context, targetID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(r.newRow(0, 0, 0)).
		Where(r.Kind.TargetColumn()+" = ?", targetID).
		Count(&n).Error
	return n, err
}
