package mysql

import (
	"context"
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

// FindByID 只返回未删除的帖子
func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, "id = ? AND status = ?", id, model.ContentNormal).Error
	return &post, err
}

// ListByCategory 分类帖子分页。被 shadowban 的作者的帖子只对作者本人可见，
// 时间窗口判断和 model.Ban.StatusAt 一致
func (r *PostRepository) ListByCategory(ctx context.Context, categoryID, viewerID uint64, now time.Time, offset, limit int) ([]model.Post, error) {
	shadowed := r.DB.Model(&model.Ban{}).
		Select("user_id").
		Where("ban_type = ? AND revoked_at IS NULL AND start_at <= ? AND (end_at IS NULL OR end_at > ?)",
			model.BanShadowban, now, now)

	var list []model.Post
	err := r.DB.WithContext(ctx).
		Where("category_id = ? AND status = ?", categoryID, model.ContentNormal).
		Where(r.DB.Where("author_id NOT IN (?)", shadowed).Or("author_id = ?", viewerID)).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// DeleteByID 管理员软删除，不校验作者；帖子不存在或已删除返回 gorm.ErrRecordNotFound。
// 同一事务里删掉该帖子的投票
func (r *PostRepository) DeleteByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, "id = ? AND status = ?", id, model.ContentNormal).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Post{}).
			Where("id = ? AND status = ?", id, model.ContentNormal).
			Update("status", model.ContentDeleted)
		if res.Error != nil {
			return res.Error
		}
		// 并发下被别人先删了
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		post.Status = model.ContentDeleted
		return tx.Where("post_id = ?", id).Delete(&model.PostVote{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeleteByAuthor 作者删除自己的帖子，返回影响行数；0 表示不存在、已删除或不是作者
func (r *PostRepository) DeleteByAuthor(ctx context.Context, postID, authorID uint64) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Post{}).
			Where("id = ? AND author_id = ? AND status = ?", postID, authorID, model.ContentNormal).
			Update("status", model.ContentDeleted)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Where("post_id = ?", postID).Delete(&model.PostVote{}).Error
	})
	return affected, err
}
