package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"autodelete_bot/internal/config"
	"autodelete_bot/internal/logger"
	"autodelete_bot/internal/telegram/models"
	"autodelete_bot/internal/telegram/repository"
)

// minuteThreshold 小于该值的 /settimer 参数按分钟解释
const minuteThreshold = 100

// ErrInvalidDelay 归一化后的延迟不在 1 秒到 48 小时之间
var ErrInvalidDelay = errors.New("delay must be between 1 second and 48 hours")

// SettingsService 自动删除的运行时配置（删除延迟与聊天白名单）
// 由命令处理器修改，由消息处理流程读取；所有方法并发安全
type SettingsService struct {
	mu           sync.RWMutex
	delaySeconds int
	allowed      map[int64]struct{} // nil 表示允许所有聊天

	repo repository.SettingsRepository // 可选，nil 时不持久化
}

// NewSettingsService 创建配置服务
func NewSettingsService(defaultDelaySeconds int, allowedChatIDs []int64, repo repository.SettingsRepository) (*SettingsService, error) {
	if defaultDelaySeconds <= 0 || defaultDelaySeconds > config.MaxDelaySeconds {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDelay, defaultDelaySeconds)
	}

	s := &SettingsService{
		delaySeconds: defaultDelaySeconds,
		repo:         repo,
	}
	s.SetAllowedChatIDs(allowedChatIDs)
	return s, nil
}

// Load 读取持久化的延迟覆盖默认值
func (s *SettingsService) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	settings, err := s.repo.Get(ctx, models.SettingsKeyAutoDelete)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		return nil
	}
	if settings.DelaySeconds <= 0 || settings.DelaySeconds > config.MaxDelaySeconds {
		logger.L().Warnf("Ignoring persisted out-of-range delay: %d", settings.DelaySeconds)
		return nil
	}

	s.mu.Lock()
	s.delaySeconds = settings.DelaySeconds
	s.mu.Unlock()

	logger.L().Infof("Loaded persisted delete delay: %d seconds", settings.DelaySeconds)
	return nil
}

// GetDelaySeconds 当前删除延迟（秒）
func (s *SettingsService) GetDelaySeconds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delaySeconds
}

// NormalizeDelay 将 /settimer 参数换算为秒
// raw < 100 按分钟解释（5 → 300），否则按秒（300 → 300）；
// 非正数或超过 48 小时返回 ErrInvalidDelay
func NormalizeDelay(raw int) (int, error) {
	if raw <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidDelay, raw)
	}

	seconds := raw
	if raw < minuteThreshold {
		seconds = raw * 60
	}
	if seconds > config.MaxDelaySeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidDelay, raw)
	}
	return seconds, nil
}

// SetDelay 更新删除延迟，返回实际保存的秒数
// 已调度的删除任务不受影响
func (s *SettingsService) SetDelay(ctx context.Context, raw int, updatedBy int64) (int, error) {
	seconds, err := NormalizeDelay(raw)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.delaySeconds = seconds
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.SaveDelay(ctx, models.SettingsKeyAutoDelete, seconds, updatedBy); err != nil {
			logger.L().Warnf("Failed to persist delete delay %d: %v", seconds, err)
		}
	}

	logger.L().Infof("Delete delay updated: %d seconds (by user %d)", seconds, updatedBy)
	return seconds, nil
}

// IsChatAllowed 未配置白名单时返回 true，否则判断是否在白名单中
func (s *SettingsService) IsChatAllowed(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.allowed == nil {
		return true
	}
	_, ok := s.allowed[chatID]
	return ok
}

// AllowedChatIDs 返回排序后的白名单副本；未配置时返回 nil
func (s *SettingsService) AllowedChatIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.allowed == nil {
		return nil
	}
	ids := make([]int64, 0, len(s.allowed))
	for id := range s.allowed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// SetAllowedChatIDs 替换白名单；空列表表示允许所有聊天
func (s *SettingsService) SetAllowedChatIDs(ids []int64) {
	var allowed map[int64]struct{}
	if len(ids) > 0 {
		allowed = make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			allowed[id] = struct{}{}
		}
	}

	s.mu.Lock()
	s.allowed = allowed
	s.mu.Unlock()
}
