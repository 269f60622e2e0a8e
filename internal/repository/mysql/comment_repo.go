package mysql

import (
	"context"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

// ActingAs 删除评论时的操作者身份，Admin=true 时跳过作者校验
type ActingAs struct {
	UserID uint64
	Admin  bool
}

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

// FindByID 只返回未删除的评论
func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.WithContext(ctx).First(&c, "id = ? AND status = ?", id, model.ContentNormal).Error
	return &c, err
}

// DeleteByID 软删除评论并删掉评论的投票，success=false 表示不存在、已删除或无权限
func (r *CommentRepository) DeleteByID(ctx context.Context, id uint64, as ActingAs) (bool, error) {
	var success bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Comment{}).Where("id = ? AND status = ?", id, model.ContentNormal)
		if !as.Admin {
			q = q.Where("author_id = ?", as.UserID)
		}
		res := q.Update("status", model.ContentDeleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		success = true
		return tx.Where("comment_id = ?", id).Delete(&model.CommentVote{}).Error
	})
	return success, err
}
