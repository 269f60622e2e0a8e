package service

import (
	"context"
	"errors"
	"strings"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommentService struct {
	repo  *mysql.CommentRepository
	posts *mysql.PostRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo:  &mysql.CommentRepository{DB: db},
		posts: &mysql.PostRepository{DB: db},
	}
}

// CreateComment 只能评论未删除的帖子
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "is required")
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}
	c := &model.Comment{PostID: postID, AuthorID: userID, Content: content}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment 幂等删除，作者或管理员可删
func (s *CommentService) DeleteComment(ctx context.Context, userID uint64, admin bool, commentID uint64) error {
	ok, err := s.repo.DeleteByID(ctx, commentID, mysql.ActingAs{UserID: userID, Admin: admin})
	if err != nil || ok {
		return err
	}
	if _, err := s.repo.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return ErrForbidden
}
