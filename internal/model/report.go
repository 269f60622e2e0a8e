package model

import "time"

type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
	TargetUser    TargetType = "user"
	TargetReport  TargetType = "report"
)

type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportDismissed ReportStatus = "dismissed"
	ReportActioned  ReportStatus = "actioned"
)

// Report 举报记录，只允许管理员改状态，不删除
type Report struct {
	ID         uint64       `gorm:"primaryKey" json:"id"`
	TargetType TargetType   `gorm:"size:16;not null;index:idx_report_target,priority:1" json:"target_type"`
	TargetID   uint64       `gorm:"not null;index:idx_report_target,priority:2" json:"target_id"`
	ReporterID uint64       `gorm:"not null;index" json:"reporter_id"`
	Reason     string       `gorm:"size:500;not null" json:"reason"`
	Status     ReportStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt  time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
