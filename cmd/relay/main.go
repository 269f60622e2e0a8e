package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Lee_Forum/internal/config"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"
	"Lee_Forum/internal/service"

	"go.uber.org/zap"
)

// relay 把审计事件从 moderation_outbox 投递到 kafka
func main() {
	cfg := config.Load()

	logger, err := pkg.InitLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mysql.InitDB(cfg.MySQLDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime)
	if err != nil {
		logger.Fatal("connect mysql", zap.Error(err))
	}

	producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
	if err != nil {
		logger.Fatal("kafka producer", zap.Error(err))
	}
	defer func() { _ = producer.Close() }()


	relayer := service.NewOutboxRelayer(db, producer, cfg.RelayBatchSize, cfg.RelayMaxRetry, cfg.RelayInterval, logger.Named("relay"))
	logger.Info("outbox relay started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
		zap.Duration("interval", cfg.RelayInterval))
	relayer.Run(ctx)
	logger.Info("outbox relay stopped")
}
