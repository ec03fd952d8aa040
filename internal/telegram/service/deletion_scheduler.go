package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"autodelete_bot/internal/crash"
	"autodelete_bot/internal/logger"
	"autodelete_bot/internal/telegram/models"

	"github.com/jonboulle/clockwork"
)

const (
	deleteTimeout = 30 * time.Second
	recordTimeout = 5 * time.Second
)

// DeleteFunc 删除指定消息（外部 Telegram 客户端）
type DeleteFunc func(ctx context.Context, chatID int64, messageID int) error

// DeletionRecorder 记录每次删除尝试的结果
type DeletionRecorder interface {
	Create(ctx context.Context, log *models.DeletionLog) error
}

// SchedulerStats 调度器计数
type SchedulerStats struct {
	Scheduled int64 // 累计调度数
	Pending   int64 // 等待中的任务数
	Deleted   int64 // 删除成功数
	Failed    int64 // 删除失败数
}

// SchedulerOption 调度器选项
type SchedulerOption func(*DeletionScheduler)

// WithClock 替换时钟（测试中使用 clockwork.FakeClock）
func WithClock(clock clockwork.Clock) SchedulerOption {
	return func(s *DeletionScheduler) { s.clock = clock }
}

// WithErrorClassifier 设置删除失败的分类函数，返回 models.DeletionStatus*
func WithErrorClassifier(classify func(error) string) SchedulerOption {
	return func(s *DeletionScheduler) { s.classify = classify }
}

// WithRecorder 设置删除记录存储
func WithRecorder(recorder DeletionRecorder) SchedulerOption {
	return func(s *DeletionScheduler) { s.recorder = recorder }
}

// DeletionScheduler 为每条消息启动独立的延迟删除任务
//
// 每个任务只尝试删除一次，失败时记录警告后结束，不重试；
// 任务之间互不影响，也不保证执行顺序。
type DeletionScheduler struct {
	deleteFn DeleteFunc
	clock    clockwork.Clock
	classify func(error) string
	recorder DeletionRecorder

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup

	scheduled atomic.Int64
	pending   atomic.Int64
	deleted   atomic.Int64
	failed    atomic.Int64
}

// NewDeletionScheduler 创建删除调度器
func NewDeletionScheduler(deleteFn DeleteFunc, opts ...SchedulerOption) *DeletionScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &DeletionScheduler{
		deleteFn: deleteFn,
		clock:    clockwork.NewRealClock(),
		classify: func(error) string { return models.DeletionStatusFailed },
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule 在 delaySeconds 秒后删除消息，立即返回
// delaySeconds 在调度时确定，之后的 /settimer 不影响已调度任务
func (s *DeletionScheduler) Schedule(msg models.InboundMessage, delaySeconds int) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		logger.L().Debugf("Scheduler stopped, skip deletion: chat_id=%d, message_id=%d", msg.ChatID, msg.MessageID)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.scheduled.Add(1)
	s.pending.Add(1)

	scheduledAt := msg.ReceivedAt
	if scheduledAt.IsZero() {
		scheduledAt = s.clock.Now()
	}
	crash.Go("deletion-task", func() { s.run(msg, delaySeconds, scheduledAt) })

	logger.L().Debugf("Deletion scheduled: chat_id=%d, message_id=%d, delay=%ds", msg.ChatID, msg.MessageID, delaySeconds)
}

func (s *DeletionScheduler) run(msg models.InboundMessage, delaySeconds int, scheduledAt time.Time) {
	defer s.wg.Done()
	defer s.pending.Add(-1)

	select {
	case <-s.ctx.Done():
		logger.L().Debugf("Deletion dropped on shutdown: chat_id=%d, message_id=%d", msg.ChatID, msg.MessageID)
		return
	case <-s.clock.After(time.Duration(delaySeconds) * time.Second):
	}

	ctx, cancel := context.WithTimeout(s.ctx, deleteTimeout)
	err := s.deleteFn(ctx, msg.ChatID, msg.MessageID)
	cancel()

	entry := &models.DeletionLog{
		ChatID:       msg.ChatID,
		MessageID:    msg.MessageID,
		Status:       models.DeletionStatusDeleted,
		DelaySeconds: delaySeconds,
		ScheduledAt:  scheduledAt,
		AttemptedAt:  s.clock.Now(),
	}

	if err != nil {
		s.failed.Add(1)
		entry.Status = s.classify(err)
		entry.Error = err.Error()
		logger.L().Warnf("Failed to delete message: chat_id=%d, message_id=%d, reason=%s, err=%v",
			msg.ChatID, msg.MessageID, entry.Status, err)
	} else {
		s.deleted.Add(1)
		logger.L().Debugf("Message deleted: chat_id=%d, message_id=%d", msg.ChatID, msg.MessageID)
	}

	s.record(entry)
}

func (s *DeletionScheduler) record(entry *models.DeletionLog) {
	if s.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := s.recorder.Create(ctx, entry); err != nil {
		logger.L().Errorf("Failed to record deletion: chat_id=%d, message_id=%d, err=%v",
			entry.ChatID, entry.MessageID, err)
	}
}

// Stats 返回当前计数
func (s *DeletionScheduler) Stats() SchedulerStats {
	return SchedulerStats{
		Scheduled: s.scheduled.Load(),
		Pending:   s.pending.Load(),
		Deleted:   s.deleted.Load(),
		Failed:    s.failed.Load(),
	}
}

// Wait 等待所有已调度任务结束
func (s *DeletionScheduler) Wait() {
	s.wg.Wait()
}

// Stop 停止调度：未到期的任务被丢弃（不持久化），并等待进行中的任务结束
func (s *DeletionScheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	logger.L().Infof("Deletion scheduler stopped, %d deleted, %d failed", s.deleted.Load(), s.failed.Load())
}
