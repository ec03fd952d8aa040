package models

import (
	"time"

	botModels "github.com/go-telegram/bot/models"
)

// InboundMessage 收到消息时的快照（值类型，调度时按值捕获）
type InboundMessage struct {
	ChatID      int64     // 所属聊天 ID
	MessageID   int       // Telegram 消息 ID
	IsPinned    bool      // 置顶相关消息，不自动删除
	IsTopicRoot bool      // 话题消息，不自动删除
	ReceivedAt  time.Time // 接收时间
}

// NewInboundMessage 从 Telegram 消息构造快照
//
// IsPinned 对应置顶服务消息（PinnedMessage 非空）；
// IsTopicRoot 覆盖话题创建消息以及话题内消息。
func NewInboundMessage(msg *botModels.Message, receivedAt time.Time) InboundMessage {
	if msg == nil {
		return InboundMessage{ReceivedAt: receivedAt}
	}
	return InboundMessage{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		IsPinned:    msg.PinnedMessage != nil,
		IsTopicRoot: msg.IsTopicMessage || msg.ForumTopicCreated != nil,
		ReceivedAt:  receivedAt,
	}
}
