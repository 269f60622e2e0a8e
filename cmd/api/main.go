package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Lee_Forum/internal/config"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"
	"Lee_Forum/internal/repository/redis"
	"Lee_Forum/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := pkg.InitLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mysql.InitDB(cfg.MySQLDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime)
	if err != nil {
		logger.Fatal("connect mysql", zap.Error(err))
	}
	// 自动建表（开发阶段 OK）
	if err := mysql.AutoMigrate(db); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}

	deps := router.Deps{
		DB:       db,
		Signer:   pkg.NewTokenSigner(cfg.JWTAccessSecret),
		Logger:   logger,
		Gatherer: prometheus.DefaultGatherer,
	}
	// 连接redis
	if cfg.SessionCheck {
		rdb, err := redis.Init(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		deps.Sessions = &redis.SessionRepository{RDB: rdb}
	}
	pkg.RegisterMetrics(prometheus.DefaultRegisterer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.InitRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
	logger.Info("http server stopped")
}
