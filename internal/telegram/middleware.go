package telegram

import (
	"context"
	"slices"

	"autodelete_bot/internal/logger"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
)

// RequireOwner 中间件：配置了 BOT_OWNER_IDS 时仅允许 Owner 执行
// 未配置时不做限制
func (b *Bot) RequireOwner(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
		if update.Message == nil {
			return
		}

		if len(b.ownerIDs) > 0 {
			if update.Message.From == nil || !slices.Contains(b.ownerIDs, update.Message.From.ID) {
				var userID int64
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
				logger.L().Warnf("Non-owner user %d attempted to use owner command", userID)
				b.sendErrorMessage(ctx, update.Message.Chat.ID, "此命令仅限 Bot Owner 使用", update.Message.ID)
				return
			}
		}

		next(ctx, botInstance, update)
	}
}

// asyncHandler 将 handler 提交到工作池执行，不阻塞更新处理
func (b *Bot) asyncHandler(handler bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
		b.workerPool.Submit(HandlerTask{
			Ctx:         ctx,
			BotInstance: botInstance,
			Update:      update,
			Handler:     handler,
			OnPanic:     b.notifyInternalError,
		})
	}
}

// notifyInternalError handler panic 后通知用户
func (b *Bot) notifyInternalError(update *botModels.Update) {
	if update == nil || update.Message == nil {
		return
	}
	b.sendErrorMessage(context.Background(), update.Message.Chat.ID, "服务器内部错误，请稍后重试")
}
