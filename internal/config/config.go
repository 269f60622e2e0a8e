package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 从环境变量读取，未设置时使用默认值
type Config struct {
	Env      string
	LogLevel string
	Port     string

	MySQLDSN          string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// SessionCheck 开启后 access token 还需与 redis 中的登录态一致
	SessionCheck bool

	JWTAccessSecret string

	KafkaBrokers   []string
	KafkaTopic     string
	RelayInterval  time.Duration
	RelayBatchSize int
	RelayMaxRetry  int
}

func Load() Config {
	cfg := Config{}

	cfg.Env = getenv("ENV", "production")
	cfg.LogLevel = getenv("LOG_LEVEL", "info")
	cfg.Port = getenv("PORT", "8080")

	cfg.MySQLDSN = getenv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/forum?charset=utf8mb4&parseTime=True&loc=UTC")
	cfg.DBMaxOpenConns = envInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DBMaxIdleConns = envInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DBConnMaxLifetime = envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)

	cfg.RedisAddr = getenv("REDIS_ADDR", "127.0.0.1:6379")
	cfg.RedisPassword = getenv("REDIS_PASSWORD", "")
	cfg.RedisDB = envInt("REDIS_DB", 0)
	cfg.SessionCheck = envBool("SESSION_CHECK", true)

	cfg.JWTAccessSecret = getenv("JWT_ACCESS_SECRET", "secret-key")

	cfg.KafkaBrokers = envList("KAFKA_BROKERS", []string{"127.0.0.1:9092"})
	cfg.KafkaTopic = getenv("KAFKA_TOPIC", "forum.moderation.actions")
	cfg.RelayInterval = envDuration("RELAY_INTERVAL", time.Second)
	cfg.RelayBatchSize = envInt("RELAY_BATCH_SIZE", 200)
	cfg.RelayMaxRetry = envInt("RELAY_MAX_RETRY", 5)

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration 支持 "5s" 这种写法，也支持纯数字秒数
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

// envList 逗号分隔
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
