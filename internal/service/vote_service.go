package service

import (
	"context"
	"errors"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"

	"gorm.io/gorm"
)

const (
	VoteInserted = "inserted"
	VoteUpdated  = "updated"
	VoteDeleted  = "deleted"
)

type VoteResult struct {
	Action string `json:"action"`
	Value  int    `json:"value,omitempty"`
}

// VoteService 帖子和评论各一个实例
type VoteService struct {
	kind   model.VoteKind
	votes  *mysql.VoteRepository
	exists func(ctx context.Context, id uint64) error
}

func NewPostVoteService(db *gorm.DB) *VoteService {
	posts := &mysql.PostRepository{DB: db}
	return &VoteService{
		kind:  model.VoteKindPost,
		votes: &mysql.VoteRepository{DB: db, Kind: model.VoteKindPost},
		exists: func(ctx context.Context, id uint64) error {
			_, err := posts.FindByID(ctx, id)
			return err
		},
	}
}

func NewCommentVoteService(db *gorm.DB) *VoteService {
	comments := &mysql.CommentRepository{DB: db}
	return &VoteService{
		kind:  model.VoteKindComment,
		votes: &mysql.VoteRepository{DB: db, Kind: model.VoteKindComment},
		exists: func(ctx context.Context, id uint64) error {
			_, err := comments.FindByID(ctx, id)
			return err
		},
	}
}

func (s *VoteService) Kind() model.VoteKind { return s.kind }

func (s *VoteService) checkTarget(ctx context.Context, targetID uint64) error {
	err := s.exists(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTargetNotFound
	}
	return err
}

// Cast 投票或改票，同一用户对同一内容只有一行。重复投同样的值也算 updated
func (s *VoteService) Cast(ctx context.Context, userID, targetID uint64, value int) (*VoteResult, error) {
	if value != model.VoteUp && value != model.VoteDown {
		return nil, invalid("value", "must be 1 or -1")
	}
	if err := s.checkTarget(ctx, targetID); err != nil {
		return nil, err
	}
	inserted, err := s.votes.Upsert(ctx, userID, targetID, int8(value))
	if err != nil {
		return nil, err
	}
	res := &VoteResult{Action: VoteUpdated, Value: value}
	if inserted {
		res.Action = VoteInserted
	}
	pkg.Votes.WithLabelValues(string(s.kind), res.Action).Inc()
	return res, nil
}

// Retract 撤销投票，没投过返回 ErrVoteNotFound
func (s *VoteService) Retract(ctx context.Context, userID, targetID uint64) (*VoteResult, error) {
	if err := s.checkTarget(ctx, targetID); err != nil {
		return nil, err
	}
	n, err := s.votes.Delete(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrVoteNotFound
	}
	pkg.Votes.WithLabelValues(string(s.kind), VoteDeleted).Inc()
	return &VoteResult{Action: VoteDeleted}, nil
}

// Mine 当前用户对内容的投票，0 表示没投
func (s *VoteService) Mine(ctx context.Context, userID, targetID uint64) (int, error) {
	v, _, err := s.votes.Get(ctx, userID, targetID)
	return int(v), err
}
