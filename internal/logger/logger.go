package logger

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the global logrus logger.
// It is safe to call multiple times; later calls overwrite previous settings.
// When LOG_FILE is set, output is also written to a rotating file.
func Init() {
	log.SetOutput(Writer(os.Stdout, strings.TrimSpace(os.Getenv("LOG_FILE"))))
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel 解析日志级别，空值或非法值回退到 info
func ParseLevel(levelStr string) log.Level {
	levelStr = strings.TrimSpace(levelStr)
	if levelStr == "" {
		return log.InfoLevel
	}
	if lvl, err := log.ParseLevel(levelStr); err == nil {
		return lvl
	}
	return log.InfoLevel
}

// Writer 返回日志输出目标；path 非空时同时写入滚动日志文件
func Writer(stdout io.Writer, path string) io.Writer {
	if path == "" {
		return stdout
	}
	return io.MultiWriter(stdout, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 30,
		MaxAge:     90, // days
		Compress:   true,
	})
}

// L returns the global logger for convenience.
func L() *log.Logger { return log.StandardLogger() }
