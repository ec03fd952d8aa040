package service

import "autodelete_bot/internal/telegram/models"

// ChatAllowlist 聊天白名单判断
type ChatAllowlist interface {
	IsChatAllowed(chatID int64) bool
}

// IsEligibleForDeletion 判断消息是否需要自动删除（仅在收到消息时判断一次）
// 依次检查：白名单 → 置顶 → 话题
func IsEligibleForDeletion(msg models.InboundMessage, allow ChatAllowlist) bool {
	if allow != nil && !allow.IsChatAllowed(msg.ChatID) {
		return false
	}
	if msg.IsPinned {
		return false
	}
	if msg.IsTopicRoot {
		return false
	}
	return true
}
