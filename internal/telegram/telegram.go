package telegram

import (
	"context"
	"fmt"
	"time"

	"autodelete_bot/internal/config"
	"autodelete_bot/internal/logger"
	"autodelete_bot/internal/telegram/repository"
	"autodelete_bot/internal/telegram/service"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

// botAPI Bot 使用到的 Telegram API 子集（*bot.Bot 实现，测试中替换）
type botAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*botModels.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
}

// Config Telegram Bot 配置
type Config struct {
	Token               string  // Bot Token
	OwnerIDs            []int64 // 允许执行 /settimer 的用户；为空表示不限制
	Debug               bool    // 是否开启调试模式
	DeleteRatePerSecond int     // 删除请求速率上限
	WorkerCount         int     // 命令处理协程数
	WorkerQueueSize     int     // 命令队列长度
}

// Bot Telegram Bot 服务
type Bot struct {
	bot          *bot.Bot
	api          botAPI
	ownerIDs     []int64
	settings     *service.SettingsService
	scheduler    *service.DeletionScheduler
	deletionLogs repository.DeletionLogRepository // 可选
	workerPool   *WorkerPool
	rateLimiter  *rate.Limiter // 删除请求限速
	startTime    time.Time
}

// New 创建 Telegram Bot 实例
// deletionLogs 为 nil 时不记录删除结果
func New(cfg Config, settings *service.SettingsService, deletionLogs repository.DeletionLogRepository) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token cannot be empty")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings service cannot be nil")
	}

	telegramBot := newBot(cfg, settings, deletionLogs)

	opts := []bot.Option{
		bot.WithDefaultHandler(telegramBot.handleMessage),
	}
	if cfg.Debug {
		opts = append(opts, bot.WithDebug())
	}

	b, err := bot.New(cfg.Token, opts...)
	if err != nil {
		telegramBot.shutdown()
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	telegramBot.bot = b
	telegramBot.api = b

	telegramBot.registerHandlers()

	logger.L().Info("Telegram bot initialized successfully")
	return telegramBot, nil
}

// InitFromConfig 从应用配置初始化 Telegram Bot
func InitFromConfig(cfg *config.Config, settings *service.SettingsService, deletionLogs repository.DeletionLogRepository) (*Bot, error) {
	telegramCfg := Config{
		Token:               cfg.TelegramToken,
		OwnerIDs:            cfg.BotOwnerIDs,
		Debug:               cfg.Debug,
		DeleteRatePerSecond: cfg.DeleteRatePerSecond,
		WorkerCount:         cfg.WorkerCount,
		WorkerQueueSize:     cfg.WorkerQueueSize,
	}
	return New(telegramCfg, settings, deletionLogs)
}

// newBot 组装除 Telegram 客户端以外的部分
func newBot(cfg Config, settings *service.SettingsService, deletionLogs repository.DeletionLogRepository, schedulerOpts ...service.SchedulerOption) *Bot {
	if cfg.DeleteRatePerSecond <= 0 {
		cfg.DeleteRatePerSecond = config.DefaultDeleteRatePerSecond
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = config.DefaultWorkerCount
	}
	if cfg.WorkerQueueSize <= 0 {
		cfg.WorkerQueueSize = config.DefaultWorkerQueueSize
	}

	telegramBot := &Bot{
		ownerIDs:     cfg.OwnerIDs,
		settings:     settings,
		deletionLogs: deletionLogs,
		workerPool:   NewWorkerPool(cfg.WorkerCount, cfg.WorkerQueueSize),
		rateLimiter:  newDeleteLimiter(cfg.DeleteRatePerSecond),
		startTime:    time.Now(),
	}

	opts := []service.SchedulerOption{
		service.WithErrorClassifier(classifyDeleteError),
	}
	if deletionLogs != nil {
		opts = append(opts, service.WithRecorder(deletionLogs))
	}
	opts = append(opts, schedulerOpts...)
	telegramBot.scheduler = service.NewDeletionScheduler(telegramBot.deleteMessage, opts...)

	return telegramBot
}

// Start 启动 Bot（阻塞式，ctx 取消后返回）
func (b *Bot) Start(ctx context.Context) error {
	logger.L().Info("Starting Telegram bot...")
	b.bot.Start(ctx)
	logger.L().Info("Telegram bot stopped")
	return nil
}

// Stop 停止 Bot 的后台组件
// 未到期的删除任务会被丢弃
func (b *Bot) Stop(ctx context.Context) error {
	logger.L().Info("Stopping Telegram bot...")

	done := make(chan struct{})
	go func() {
		b.shutdown()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop telegram bot: %w", ctx.Err())
	}
}

func (b *Bot) shutdown() {
	b.scheduler.Stop()
	b.workerPool.Shutdown()
}

// newDeleteLimiter 删除请求令牌桶：每秒 ratePerSecond 个，允许同样数量的突发
func newDeleteLimiter(ratePerSecond int) *rate.Limiter {
	if ratePerSecond <= 0 {
		ratePerSecond = config.DefaultDeleteRatePerSecond
	}
	return rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond)
}

// deleteMessage 删除消息（受速率限制）
func (b *Bot) deleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := b.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	_, err := b.api.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	return err
}
