package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"autodelete_bot/internal/telegram/models"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// awaitTimers 等待 n 个删除任务进入计时
func awaitTimers(t *testing.T, clock *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, n), "expected %d pending timers", n)
}

type deleteCall struct {
	chatID    int64
	messageID int
}

type recordingDeleter struct {
	mu    sync.Mutex
	calls []deleteCall
	err   error
}

func (d *recordingDeleter) Delete(ctx context.Context, chatID int64, messageID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, deleteCall{chatID: chatID, messageID: messageID})
	return d.err
}

func (d *recordingDeleter) Calls() []deleteCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]deleteCall(nil), d.calls...)
}

type memoryRecorder struct {
	mu   sync.Mutex
	logs []*models.DeletionLog
}

func (r *memoryRecorder) Create(ctx context.Context, log *models.DeletionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func TestDeletionSchedulerDeletesAfterDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	deleter := &recordingDeleter{}
	recorder := &memoryRecorder{}
	s := NewDeletionScheduler(deleter.Delete, WithClock(clock), WithRecorder(recorder))
	defer s.Stop()

	receivedAt := clock.Now()
	s.Schedule(models.InboundMessage{ChatID: -1001, MessageID: 77, ReceivedAt: receivedAt}, 180)
	awaitTimers(t, clock, 1)

	clock.Advance(179 * time.Second)
	assert.Empty(t, deleter.Calls(), "delete must not run before the delay elapses")
	assert.Equal(t, int64(1), s.Stats().Pending)

	clock.Advance(time.Second)
	s.Wait()

	require.Equal(t, []deleteCall{{chatID: -1001, messageID: 77}}, deleter.Calls())
	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Scheduled)
	assert.Equal(t, int64(1), stats.Deleted)
	assert.Equal(t, int64(0), stats.Failed)
	assert.Equal(t, int64(0), stats.Pending)

	require.Len(t, recorder.logs, 1)
	entry := recorder.logs[0]
	assert.True(t, entry.Succeeded())
	assert.Equal(t, 180, entry.DelaySeconds)
	assert.Equal(t, receivedAt, entry.ScheduledAt)
	assert.Equal(t, 180*time.Second, entry.AttemptedAt.Sub(entry.ScheduledAt))
}

func TestDeletionSchedulerScheduledAtFallsBackToClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	recorder := &memoryRecorder{}
	s := NewDeletionScheduler((&recordingDeleter{}).Delete, WithClock(clock), WithRecorder(recorder))
	defer s.Stop()

	s.Schedule(models.InboundMessage{ChatID: -1, MessageID: 1}, 30)
	awaitTimers(t, clock, 1)
	clock.Advance(30 * time.Second)
	s.Wait()

	require.Len(t, recorder.logs, 1)
	assert.False(t, recorder.logs[0].ScheduledAt.IsZero())
	assert.Equal(t, 30*time.Second, recorder.logs[0].AttemptedAt.Sub(recorder.logs[0].ScheduledAt))
}

func TestDeletionSchedulerFailureIsTerminal(t *testing.T) {
	clock := clockwork.NewFakeClock()
	deleter := &recordingDeleter{err: errors.New("Bad Request: message to delete not found")}
	recorder := &memoryRecorder{}
	s := NewDeletionScheduler(deleter.Delete,
		WithClock(clock),
		WithRecorder(recorder),
		WithErrorClassifier(func(error) string { return models.DeletionStatusNotFound }),
	)
	defer s.Stop()

	s.Schedule(models.InboundMessage{ChatID: -1001, MessageID: 5}, 60)
	awaitTimers(t, clock, 1)
	clock.Advance(60 * time.Second)
	s.Wait()

	assert.Len(t, deleter.Calls(), 1, "failed delete must not be retried")
	assert.Equal(t, int64(1), s.Stats().Failed)
	require.Len(t, recorder.logs, 1)
	assert.Equal(t, models.DeletionStatusNotFound, recorder.logs[0].Status)
	assert.False(t, recorder.logs[0].Succeeded())
	assert.NotEmpty(t, recorder.logs[0].Error)
}

func TestDeletionSchedulerIndependentTasks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	deleter := &recordingDeleter{}
	s := NewDeletionScheduler(deleter.Delete, WithClock(clock))
	defer s.Stop()

	// 较早的消息使用较长延迟，较晚的消息使用较短延迟
	s.Schedule(models.InboundMessage{ChatID: -1, MessageID: 1}, 600)
	s.Schedule(models.InboundMessage{ChatID: -1, MessageID: 2}, 60)
	awaitTimers(t, clock, 2)

	clock.Advance(60 * time.Second)
	require.Eventually(t, func() bool { return len(deleter.Calls()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, deleter.Calls()[0].messageID)
	assert.Equal(t, int64(1), s.Stats().Pending)

	clock.Advance(540 * time.Second)
	s.Wait()
	assert.Len(t, deleter.Calls(), 2)
}

func TestDeletionSchedulerScheduleDoesNotBlock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	block := make(chan struct{})
	s := NewDeletionScheduler(func(ctx context.Context, chatID int64, messageID int) error {
		<-block
		return nil
	}, WithClock(clock))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Schedule(models.InboundMessage{ChatID: -1, MessageID: i}, 1)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Schedule blocked on pending deletions")
	}

	awaitTimers(t, clock, 100)
	clock.Advance(time.Second)

	close(block)
	s.Wait()
	assert.Equal(t, int64(100), s.Stats().Deleted)
	s.Stop()
}

func TestDeletionSchedulerStopDropsPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	deleter := &recordingDeleter{}
	s := NewDeletionScheduler(deleter.Delete, WithClock(clock))

	s.Schedule(models.InboundMessage{ChatID: -1, MessageID: 1}, 180)
	awaitTimers(t, clock, 1)

	s.Stop()
	assert.Empty(t, deleter.Calls())
	assert.Equal(t, int64(0), s.Stats().Pending)

	// 停止后不再接受新任务
	s.Schedule(models.InboundMessage{ChatID: -1, MessageID: 2}, 180)
	assert.Equal(t, int64(1), s.Stats().Scheduled)
}

func TestDeletionSchedulerRecoversPanic(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var calls int
	var mu sync.Mutex
	s := NewDeletionScheduler(func(ctx context.Context, chatID int64, messageID int) error {
		mu.Lock()
		calls++
		mu.Unlock()
		if messageID == 1 {
			panic(fmt.Sprintf("unexpected message %d", messageID))
		}
		return nil
	}, WithClock(clock))
	defer s.Stop()

	s.Schedule(models.InboundMessage{ChatID: -1, MessageID: 1}, 10)
	s.Schedule(models.InboundMessage{ChatID: -1, MessageID: 2}, 10)
	awaitTimers(t, clock, 2)
	clock.Advance(10 * time.Second)
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(1), s.Stats().Deleted)
	assert.Equal(t, int64(0), s.Stats().Pending)
}
