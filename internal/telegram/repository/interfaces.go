package repository

import (
	"context"

	"autodelete_bot/internal/telegram/models"
)

// SettingsRepository 运行时配置数据访问接口
type SettingsRepository interface {
	// Get 获取指定键的配置；不存在时返回 nil, nil
	Get(ctx context.Context, key string) (*models.BotSettings, error)

	// SaveDelay 保存删除延迟
	SaveDelay(ctx context.Context, key string, delaySeconds int, updatedBy int64) error

	// EnsureIndexes 确保索引存在
	EnsureIndexes(ctx context.Context) error
}

// DeletionLogRepository 删除记录数据访问接口
type DeletionLogRepository interface {
	// Create 写入一条删除记录
	Create(ctx context.Context, log *models.DeletionLog) error

	// CountByStatus 统计各状态的记录数
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// EnsureIndexes 确保索引存在（attempted_at 上的 TTL 索引）
	EnsureIndexes(ctx context.Context, ttlSeconds int32) error
}
