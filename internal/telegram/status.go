package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autodelete_bot/internal/logger"
	"autodelete_bot/internal/telegram/models"
)

// buildStatusMessage 构建 /status 命令的响应文本
func (b *Bot) buildStatusMessage(ctx context.Context) string {
	delay := b.settings.GetDelaySeconds()
	lines := []string{
		fmt.Sprintf("ℹ️ 当前自动删除延迟: %d 秒（%s）", delay, formatDuration(time.Duration(delay)*time.Second)),
		"💬 允许的聊天: " + formatChatIDs(b.settings.AllowedChatIDs()),
	}

	stats := b.scheduler.Stats()
	lines = append(lines, fmt.Sprintf("⏳ 等待删除: %d\n🗑 已删除: %d，失败: %d", stats.Pending, stats.Deleted, stats.Failed))

	if b.deletionLogs != nil {
		dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		counts, err := b.deletionLogs.CountByStatus(dbCtx)
		if err != nil {
			logger.L().Warnf("Failed to count deletion logs: %v", err)
		} else {
			lines = append(lines, fmt.Sprintf("📚 近期记录: 成功 %d，已不存在 %d，无权限 %d，其他失败 %d",
				counts[models.DeletionStatusDeleted],
				counts[models.DeletionStatusNotFound],
				counts[models.DeletionStatusForbidden],
				counts[models.DeletionStatusFailed]))
		}
	}

	if b.workerPool != nil {
		poolStats := b.workerPool.Stats()
		lines = append(lines, fmt.Sprintf("🛠 工作池: %d 个协程，队列 %d/%d", poolStats.Workers, poolStats.QueueLength, poolStats.QueueCapacity))
	}

	if !b.startTime.IsZero() {
		lines = append(lines, fmt.Sprintf("⏱ 运行时间: %s", formatDuration(time.Since(b.startTime))))
	}

	return strings.Join(lines, "\n")
}

// formatChatIDs 格式化白名单，nil 表示全部
func formatChatIDs(ids []int64) string {
	if len(ids) == 0 {
		return "全部"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}

// formatDuration 将持续时间格式化为人类可读的字符串
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d天", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d小时", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d分钟", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d秒", seconds))
	}

	return strings.Join(parts, " ")
}
