package service

import (
	"context"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publisher 事件投递目标，生产环境是 kafka producer
type Publisher interface {
	Send(ctx context.Context, key string, value []byte) error
}

// OutboxRelayer 把审计事件从 outbox 表投递到 kafka
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	pub       Publisher
	batchSize int
	maxRetry  int
	interval  time.Duration
	log       *zap.Logger
}

func NewOutboxRelayer(db *gorm.DB, pub Publisher, batchSize, maxRetry int, interval time.Duration, logger *zap.Logger) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if maxRetry <= 0 {
		maxRetry = 5
	}
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		pub:       pub,
		batchSize: batchSize,
		maxRetry:  maxRetry,
		interval:  interval,
		log:       logger,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := r.DrainOnce(ctx); err != nil {
				r.log.Warn("outbox drain failed", zap.Error(err))
			}
		}
	}
}

// DrainOnce 投递一批，返回成功条数。单条失败只累加重试次数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) (int, error) {
	rows, err := r.repo.List(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		return 0, err
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err := r.pub.Send(ctx, outboxKey(&ob), []byte(ob.Payload)); err != nil {
			pkg.OutboxRelayed.WithLabelValues("failed").Inc()
			r.log.Warn("outbox send failed", zap.Uint64("outbox_id", ob.ID), zap.Int("retry", ob.Retry), zap.Error(err))
			if err := r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				r.log.Error("outbox retry update failed", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
			}
			continue
		}
		pkg.OutboxRelayed.WithLabelValues("sent").Inc()
		if err := r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			r.log.Error("outbox success update failed", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func outboxKey(ob *model.ModerationOutbox) string {
	return string(ob.EventType) + ":" + pkg.MakeKeyFromID(ob.ActionID)
}
