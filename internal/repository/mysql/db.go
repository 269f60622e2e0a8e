package mysql

import (
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config 返回统一的 gorm 配置，时间统一用 UTC，保证封禁时间窗口比较一致
func Config() *gorm.Config {
	return &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// InitDB 连接 MySQL
func InitDB(dsn string, maxOpen, maxIdle int, maxLifetime time.Duration) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), Config())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)
	return db, nil
}

// AutoMigrate 自动建表（开发阶段 OK）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Post{},
		&model.Comment{},
		&model.PostVote{},
		&model.CommentVote{},
		&model.Report{},
		&model.Ban{},
		&model.ModerationAction{},
		&model.ModerationOutbox{},
	)
}
