package model

import "time"

const (
	ContentNormal  = 0
	ContentDeleted = 1
)

type Post struct {
	ID         uint64    `gorm:"primaryKey;index:idx_cat_time_id,priority:3,sort:desc" json:"id"`
	CategoryID uint64    `gorm:"not null;index:idx_cat_time_id,priority:1" json:"category_id"`
	AuthorID   uint64    `gorm:"not null;index:idx_author_time" json:"author_id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	Status     int       `gorm:"not null;default:0" json:"status"` // 0=normal 1=deleted
	CreatedAt  time.Time `gorm:"index:idx_cat_time_id,priority:2,sort:desc;index:idx_author_time" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
