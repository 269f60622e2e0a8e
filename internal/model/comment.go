package model

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index:idx_post_time" json:"post_id"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Status    int       `gorm:"not null;default:0" json:"status"` // 0=normal 1=deleted
	CreatedAt time.Time `gorm:"index:idx_post_time" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
