package crash

import (
	"runtime/debug"

	"autodelete_bot/internal/logger"
)

// Recover 恢复 panic 并记录堆栈，需在 defer 中直接调用
func Recover(name string) {
	if r := recover(); r != nil {
		logger.L().Errorf("PANIC in %s: %v", name, r)
		logger.L().Errorf("Stack trace:\n%s", string(debug.Stack()))
	}
}

// Go 启动一个带有 panic 恢复的 goroutine
func Go(name string, fn func()) {
	go func() {
		defer Recover(name)
		fn()
	}()
}
