package telegram

import (
	"errors"
	"strings"

	"autodelete_bot/internal/telegram/models"

	"github.com/go-telegram/bot"
)

// classifyDeleteError 将删除失败归类为 models.DeletionStatus*
func classifyDeleteError(err error) string {
	if err == nil {
		return models.DeletionStatusDeleted
	}

	if errors.Is(err, bot.ErrorForbidden) {
		return models.DeletionStatusForbidden
	}

	if errors.Is(err, bot.ErrorBadRequest) {
		message := strings.ToLower(err.Error())
		switch {
		case strings.Contains(message, "message to delete not found"),
			strings.Contains(message, "message not found"):
			return models.DeletionStatusNotFound
		case strings.Contains(message, "message can't be deleted"),
			strings.Contains(message, "not enough rights"):
			return models.DeletionStatusForbidden
		}
	}

	return models.DeletionStatusFailed
}
