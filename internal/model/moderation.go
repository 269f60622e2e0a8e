package model

import "time"

type ActionType string

const (
	ActionBanCreate     ActionType = "ban_create"
	ActionBanUpdate     ActionType = "ban_update"
	ActionBanRevoke     ActionType = "ban_revoke"
	ActionReportAction  ActionType = "report_action"
	ActionDeleteContent ActionType = "delete_content"
)

// ModerationAction 管理操作审计日志，只追加
type ModerationAction struct {
	ID         uint64         `gorm:"primaryKey" json:"id"`
	ActorID    uint64         `gorm:"not null;index" json:"actor_id"`
	TargetType TargetType     `gorm:"size:16;not null;index:idx_action_target,priority:1" json:"target_type"`
	TargetID   uint64         `gorm:"not null;index:idx_action_target,priority:2" json:"target_id"`
	ActionType ActionType     `gorm:"size:32;not null;index" json:"action_type"`
	Details    map[string]any `gorm:"type:json;serializer:json" json:"details"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

// ModerationOutbox 审计事件发件箱，和审计记录同一事务写入，由 relay 投递到 kafka
type ModerationOutbox struct {
	ID        uint64     `gorm:"primaryKey"`
	ActionID  uint64     `gorm:"not null;index"`
	EventType ActionType `gorm:"size:32;not null"`
	Payload   string     `gorm:"type:json;not null"`
	Status    int8       `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry     int        `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ModerationOutbox) TableName() string { return "moderation_outbox" }

const (
	OutboxPending = 0
	OutboxSent    = 1
	OutboxFailed  = 2
)
