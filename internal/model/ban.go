package model

import "time"

type BanType string

const (
	BanSuspend   BanType = "suspend"
	BanPost      BanType = "post_ban"
	BanComment   BanType = "comment_ban"
	BanVote      BanType = "vote_ban"
	BanShadowban BanType = "shadowban"
)

// BanStatus 封禁的有效状态，不落库，每次读时根据时间推导
type BanStatus string

const (
	BanScheduled BanStatus = "scheduled"
	BanActive    BanStatus = "active"
	BanExpired   BanStatus = "expired"
	BanRevoked   BanStatus = "revoked"
)

// Ban 封禁记录，只软撤销不硬删除
type Ban struct {
	ID              uint64     `gorm:"primaryKey" json:"id"`
	UserID          uint64     `gorm:"not null;index:idx_ban_user_type,priority:1" json:"user_id"`
	BanType         BanType    `gorm:"size:16;not null;index:idx_ban_user_type,priority:2" json:"ban_type"`
	ReasonAdmin     string     `gorm:"type:text" json:"reason_admin,omitempty"`
	ReasonUser      string     `gorm:"size:500" json:"reason_user,omitempty"`
	StartAt         time.Time  `gorm:"not null;index" json:"start_at"`
	EndAt           *time.Time `json:"end_at"` // nil=永久
	CreatedBy       uint64     `gorm:"not null;index" json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
	RevokedBy       *uint64    `json:"revoked_by,omitempty"`
	RelatedReportID *uint64    `gorm:"index" json:"related_report_id,omitempty"`
}

// StatusAt 推导封禁在 now 时刻的状态。撤销优先于时间窗口
func (b *Ban) StatusAt(now time.Time) BanStatus {
	switch {
	case b.RevokedAt != nil:
		return BanRevoked
	case b.StartAt.After(now):
		return BanScheduled
	case b.EndAt != nil && !b.EndAt.After(now):
		return BanExpired
	default:
		return BanActive
	}
}

// IsActiveAt 只有 active 的封禁才会被执行
func (b *Ban) IsActiveAt(now time.Time) bool {
	return b.StatusAt(now) == BanActive
}
