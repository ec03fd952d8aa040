package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultDelaySeconds        = 180
	MaxDelaySeconds            = 48 * 60 * 60 // Bot 只能删除 48 小时内的消息
	DefaultMongoDBName         = "autodelete_bot"
	DefaultLogRetentionDays    = 7
	DefaultDeleteRatePerSecond = 20
	DefaultWorkerCount         = 4
	DefaultWorkerQueueSize     = 100
)

// ErrMissingToken 未配置 Bot Token
var ErrMissingToken = errors.New("BOT_TOKEN (or TELEGRAM_TOKEN) is required")

// Config 应用程序配置
type Config struct {
	TelegramToken       string  // Telegram Bot API Token
	Debug               bool    // 是否开启 bot 调试日志
	BotOwnerIDs         []int64 // 允许执行 /settimer 的用户；为空表示不限制
	DelaySeconds        int     // 默认删除延迟（秒）
	AllowedChatIDs      []int64 // 允许自动删除的聊天；为空表示全部
	MongoURI            string  // MongoDB连接URI（可选，为空时不持久化）
	MongoDBName         string  // MongoDB数据库名称
	LogRetentionDays    int     // 删除日志保留天数
	DeleteRatePerSecond int     // 每秒最多发出的删除请求数
	WorkerCount         int     // 命令处理协程数
	WorkerQueueSize     int     // 命令队列长度
}

// Load 从环境变量加载配置
// 当前目录存在 .env 时先加载（不覆盖已有环境变量）
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv 使用给定的查找函数解析配置，便于测试
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	token := get("BOT_TOKEN")
	if token == "" {
		token = get("TELEGRAM_TOKEN")
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	mongoDBName := get("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = DefaultMongoDBName
	}

	cfg := &Config{
		TelegramToken: token,
		MongoURI:      get("MONGO_URI"),
		MongoDBName:   mongoDBName,
	}

	if debug := get("BOT_DEBUG"); debug != "" {
		value, err := strconv.ParseBool(debug)
		if err != nil {
			return nil, fmt.Errorf("failed to parse BOT_DEBUG: %w", err)
		}
		cfg.Debug = value
	}

	var err error

	// 解析BOT_OWNER_IDS
	if cfg.BotOwnerIDs, err = parseIDList(get("BOT_OWNER_IDS")); err != nil {
		return nil, fmt.Errorf("failed to parse BOT_OWNER_IDS: %w", err)
	}

	// 解析ALLOWED_CHAT_IDS（可选，逗号分隔）
	if cfg.AllowedChatIDs, err = parseIDList(get("ALLOWED_CHAT_IDS")); err != nil {
		return nil, fmt.Errorf("failed to parse ALLOWED_CHAT_IDS: %w", err)
	}

	if cfg.DelaySeconds, err = positiveInt(get("DELETE_DELAY_SECONDS"), DefaultDelaySeconds); err != nil {
		return nil, fmt.Errorf("failed to parse DELETE_DELAY_SECONDS: %w", err)
	}
	if cfg.DelaySeconds > MaxDelaySeconds {
		return nil, fmt.Errorf("failed to parse DELETE_DELAY_SECONDS: must be <= %d, got %d", MaxDelaySeconds, cfg.DelaySeconds)
	}
	if cfg.LogRetentionDays, err = positiveInt(get("DELETION_LOG_RETENTION_DAYS"), DefaultLogRetentionDays); err != nil {
		return nil, fmt.Errorf("failed to parse DELETION_LOG_RETENTION_DAYS: %w", err)
	}
	if cfg.DeleteRatePerSecond, err = positiveInt(get("DELETE_RATE_PER_SECOND"), DefaultDeleteRatePerSecond); err != nil {
		return nil, fmt.Errorf("failed to parse DELETE_RATE_PER_SECOND: %w", err)
	}
	if cfg.WorkerCount, err = positiveInt(get("WORKER_COUNT"), DefaultWorkerCount); err != nil {
		return nil, fmt.Errorf("failed to parse WORKER_COUNT: %w", err)
	}
	if cfg.WorkerQueueSize, err = positiveInt(get("WORKER_QUEUE_SIZE"), DefaultWorkerQueueSize); err != nil {
		return nil, fmt.Errorf("failed to parse WORKER_QUEUE_SIZE: %w", err)
	}

	return cfg, nil
}

// parseIDList 解析逗号分隔的ID字符串
// 支持格式: "123456789" 或 "-1001234567890, 987654321"
func parseIDList(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

func positiveInt(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if value < 1 {
		return 0, fmt.Errorf("must be >= 1, got %d", value)
	}
	return value, nil
}
