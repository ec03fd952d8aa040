package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"autodelete_bot/internal/app"
	"autodelete_bot/internal/config"
	"autodelete_bot/internal/crash"
	"autodelete_bot/internal/logger"
)

func main() {
	// 初始化logger
	logger.Init()
	defer crash.Recover("main")

	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatalf("配置加载失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.L().Fatalf("应用初始化失败: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		logger.L().Errorf("Bot exited with error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Close(shutdownCtx); err != nil {
		logger.L().Errorf("Shutdown failed: %v", err)
	}
	logger.L().Info("Bye")
}
