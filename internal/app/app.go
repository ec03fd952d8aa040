package app

import (
	"context"
	"fmt"
	"time"

	"autodelete_bot/internal/config"
	"autodelete_bot/internal/logger"
	"autodelete_bot/internal/mongo"
	"autodelete_bot/internal/telegram"
	"autodelete_bot/internal/telegram/repository"
	"autodelete_bot/internal/telegram/service"
)

// App 应用服务容器
// 负责管理所有服务的生命周期（初始化、运行、关闭）
type App struct {
	MongoDB     *mongo.Client // 未配置 MONGO_URI 时为 nil
	Settings    *service.SettingsService
	TelegramBot *telegram.Bot
}

// New 初始化应用及其所有服务
// 按顺序初始化各个服务，任何服务初始化失败都会返回错误
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	mongoClient, err := mongo.InitFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init MongoDB failed: %w", err)
	}
	app.MongoDB = mongoClient

	var (
		settingsRepo repository.SettingsRepository
		deletionLogs repository.DeletionLogRepository
	)
	if mongoClient != nil {
		logger.L().Info("MongoDB initialized successfully")

		db := mongoClient.Database()
		settingsRepo = repository.NewMongoSettingsRepository(db)
		deletionLogs = repository.NewMongoDeletionLogRepository(db)

		if err := ensureIndexes(ctx, cfg, settingsRepo, deletionLogs); err != nil {
			app.Close(context.Background())
			return nil, err
		}
	} else {
		logger.L().Info("MONGO_URI not set, running without persistence")
	}

	app.Settings, err = service.NewSettingsService(cfg.DelaySeconds, cfg.AllowedChatIDs, settingsRepo)
	if err != nil {
		app.Close(context.Background())
		return nil, fmt.Errorf("init settings failed: %w", err)
	}
	if err := app.Settings.Load(ctx); err != nil {
		logger.L().Warnf("Failed to load persisted settings, using defaults: %v", err)
	}

	app.TelegramBot, err = telegram.InitFromConfig(cfg, app.Settings, deletionLogs)
	if err != nil {
		app.Close(context.Background())
		return nil, fmt.Errorf("init Telegram bot failed: %w", err)
	}

	logger.L().Infof("Auto-delete ready: delay=%ds, allowed_chats=%v", app.Settings.GetDelaySeconds(), app.Settings.AllowedChatIDs())
	return app, nil
}

func ensureIndexes(ctx context.Context, cfg *config.Config, settingsRepo repository.SettingsRepository, deletionLogs repository.DeletionLogRepository) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := settingsRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure settings indexes: %w", err)
	}
	logger.L().Debug("Settings indexes ensured")

	ttl := int32(cfg.LogRetentionDays * 24 * 3600)
	if err := deletionLogs.EnsureIndexes(ctx, ttl); err != nil {
		return fmt.Errorf("failed to ensure deletion log indexes: %w", err)
	}
	logger.L().Debug("Deletion log indexes ensured")

	return nil
}

// Run 启动 Bot 并阻塞直到 ctx 取消
func (a *App) Run(ctx context.Context) error {
	return a.TelegramBot.Start(ctx)
}

// Close 优雅关闭所有服务
// 应该在应用退出时调用，确保资源正确释放
func (a *App) Close(ctx context.Context) error {
	if a.TelegramBot != nil {
		if err := a.TelegramBot.Stop(ctx); err != nil {
			return fmt.Errorf("stop Telegram bot failed: %w", err)
		}
	}
	if a.MongoDB != nil {
		if err := a.MongoDB.Close(ctx); err != nil {
			return fmt.Errorf("close MongoDB failed: %w", err)
		}
	}
	return nil
}
