package model

import "time"

// VoteKind 投票对象类型，帖子和评论两套同构的表
type VoteKind string

const (
	VoteKindPost    VoteKind = "post"
	VoteKindComment VoteKind = "comment"
)

const (
	VoteDown = -1
	VoteUp   = 1
)

// PostVote 唯一(post_id, user_id)，不存 0 值，撤销即删除
type PostVote struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	PostID    uint64 `gorm:"not null;uniqueIndex:uk_post_vote_user"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_post_vote_user;index"`
	Value     int8   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PostVote) TableName() string {
	return "post_votes"
}

type CommentVote struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	CommentID uint64 `gorm:"not null;uniqueIndex:uk_comment_vote_user"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_comment_vote_user;index"`
	Value     int8   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CommentVote) TableName() string {
	return "comment_votes"
}

// Table 返回该类型投票所在的表
func (k VoteKind) Table() string {
	if k == VoteKindComment {
		return CommentVote{}.TableName()
	}
	return PostVote{}.TableName()
}

// TargetColumn 返回投票表中指向内容的列名
func (k VoteKind) TargetColumn() string {
	if k == VoteKindComment {
		return "comment_id"
	}
	return "post_id"
}
