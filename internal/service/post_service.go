package service

import (
	"context"
	"errors"
	"strings"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/repository/mysql"

	"gorm.io/gorm"
)

type PostService struct {
	repo *mysql.PostRepository
	now  Clock
}

func NewPostService(db *gorm.DB, now Clock) *PostService {
	if now == nil {
		now = utcNow
	}
	return &PostService{repo: &mysql.PostRepository{DB: db}, now: now}
}

func (s *PostService) CreatePost(ctx context.Context, userID, categoryID uint64, title, content string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if len(title) > 200 {
		return nil, invalid("title", "must be at most 200 characters")
	}
	post := &model.Post{
		CategoryID: categoryID,
		AuthorID:   userID,
		Title:      title,
		Content:    content,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListByCategory 分类帖子列表，影子封禁用户的帖子只有本人看得到
func (s *PostService) ListByCategory(ctx context.Context, categoryID, viewerID uint64, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.repo.ListByCategory(ctx, categoryID, viewerID, s.now(), offset, size)
}

// DeletePost 幂等删除：成功/已删除均返回 nil；仅无权限时报错
func (s *PostService) DeletePost(ctx context.Context, userID uint64, admin bool, postID uint64) error {
	if admin {
		_, err := s.repo.DeleteByID(ctx, postID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	affected, err := s.repo.DeleteByAuthor(ctx, postID, userID)
	if err != nil {
		return err
	}
	// affected==0：可能已删除或无权限
	if affected == 0 {
		if _, err := s.repo.FindByID(ctx, postID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		// 还能读到帖子且未删除，则说明无权限
		return ErrForbidden
	}
	return nil
}
