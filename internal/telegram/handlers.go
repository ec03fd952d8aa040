package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autodelete_bot/internal/logger"
	"autodelete_bot/internal/telegram/models"
	"autodelete_bot/internal/telegram/service"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
)

const (
	startText = "👋 自动删除机器人已启用！\n\n群内消息会在设定时间后自动删除（置顶消息与话题消息除外）。\n\n" +
		"可用命令:\n/status - 查看当前设置\n/settimer <分钟或秒数> - 修改删除延迟"

	setTimerUsageText = "用法: /settimer <分钟或秒数>\n" +
		"小于 100 按分钟计算，否则按秒计算，最长 48 小时\n例如: /settimer 5（5 分钟）或 /settimer 300（300 秒）"
)

// registerHandlers 注册命令处理器（异步执行）
// 非命令消息由默认 handler（handleMessage）同步处理
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandlerMatchFunc(matchCommand(commandStart), b.asyncHandler(b.handleStart))
	b.bot.RegisterHandlerMatchFunc(matchCommand(commandStatus), b.asyncHandler(b.handleStatus))
	b.bot.RegisterHandlerMatchFunc(matchCommand(commandSetTimer), b.asyncHandler(b.RequireOwner(b.handleSetTimer)))

	logger.L().Debug("All handlers registered with async execution")
}

// handleStart 处理 /start 命令
func (b *Bot) handleStart(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	b.sendMessage(ctx, update.Message.Chat.ID, startText)
}

// handleSetTimer 处理 /settimer 命令
// 参数错误时回复用法，配置保持不变
func (b *Bot) handleSetTimer(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	var userID int64
	if update.Message.From != nil {
		userID = update.Message.From.ID
	}

	raw, err := parseSetTimerArgs(update.Message.Text)
	if err != nil {
		logger.L().Infof("Invalid /settimer usage: chat_id=%d, user_id=%d, err=%v", chatID, userID, err)
		b.sendErrorMessage(ctx, chatID, setTimerUsageText, update.Message.ID)
		return
	}

	seconds, err := b.settings.SetDelay(ctx, raw, userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDelay) {
			b.sendErrorMessage(ctx, chatID, "删除延迟必须在 1 秒到 48 小时之间\n"+setTimerUsageText, update.Message.ID)
			return
		}
		logger.L().Errorf("Failed to set delay: chat_id=%d, err=%v", chatID, err)
		b.sendErrorMessage(ctx, chatID, "更新失败，请稍后重试", update.Message.ID)
		return
	}

	b.sendMessage(ctx, chatID,
		fmt.Sprintf("⏱ 删除计时已更新: %d 秒（%s）\n已调度的消息仍按原延迟删除", seconds, formatDuration(time.Duration(seconds)*time.Second)),
		update.Message.ID)
}

// handleStatus 处理 /status 命令
func (b *Bot) handleStatus(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	b.sendMessage(ctx, update.Message.Chat.ID, b.buildStatusMessage(ctx))
}

// handleMessage 默认 handler：判断消息是否需要删除并调度
func (b *Bot) handleMessage(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || isCommand(update.Message) {
		return
	}

	inbound := models.NewInboundMessage(update.Message, time.Now())
	if !service.IsEligibleForDeletion(inbound, b.settings) {
		logger.L().Debugf("Message skipped: chat_id=%d, message_id=%d, pinned=%t, topic=%t",
			inbound.ChatID, inbound.MessageID, inbound.IsPinned, inbound.IsTopicRoot)
		return
	}

	b.scheduler.Schedule(inbound, b.settings.GetDelaySeconds())
}
