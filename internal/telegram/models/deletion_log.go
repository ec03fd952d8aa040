package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 删除结果常量
const (
	DeletionStatusDeleted   = "deleted"   // 删除成功
	DeletionStatusNotFound  = "not_found" // 消息已不存在
	DeletionStatusForbidden = "forbidden" // 无权限
	DeletionStatusFailed    = "failed"    // 其他失败（网络等）
)

// DeletionLog 单次删除尝试的记录
type DeletionLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ChatID       int64              `bson:"chat_id"`
	MessageID    int                `bson:"message_id"`
	Status       string             `bson:"status"`
	Error        string             `bson:"error,omitempty"`
	DelaySeconds int                `bson:"delay_seconds"`
	ScheduledAt  time.Time          `bson:"scheduled_at"`
	AttemptedAt  time.Time          `bson:"attempted_at"` // TTL 索引字段
}

// Succeeded 是否删除成功
func (l *DeletionLog) Succeeded() bool {
	return l.Status == DeletionStatusDeleted
}
