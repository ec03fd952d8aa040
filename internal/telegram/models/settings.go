package models

import "time"

// SettingsKeyAutoDelete 全局自动删除配置的文档键
const SettingsKeyAutoDelete = "auto_delete"

// BotSettings 运行时配置（持久化后 /settimer 在重启后仍生效）
type BotSettings struct {
	Key          string    `bson:"key"`           // 配置键（唯一）
	DelaySeconds int       `bson:"delay_seconds"` // 删除延迟（秒）
	UpdatedBy    int64     `bson:"updated_by"`    // 最后修改人（0 表示系统）
	UpdatedAt    time.Time `bson:"updated_at"`    // 更新时间
}
