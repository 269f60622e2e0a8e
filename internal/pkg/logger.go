package pkg

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ServiceName = "lee-forum"

// InitLogger 按环境构建 zap logger 并设置为全局 logger
func InitLogger(env, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(env, "dev") || strings.EqualFold(env, "development") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	logger = logger.Named(ServiceName).With(zap.String("service", ServiceName))
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// ParseLevel 未识别的级别按 info 处理
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zap.DebugLevel
	case "WARN":
		return zap.WarnLevel
	case "ERROR":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
