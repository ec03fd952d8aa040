package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
)

// 命令名
const (
	commandStart    = "start"
	commandSetTimer = "settimer"
	commandStatus   = "status"
)

// ErrUsage /settimer 参数缺失或不是整数
var ErrUsage = errors.New("usage: /settimer <minutes or seconds>")

// commandName 提取命令名（去掉前导 / 与 @botname 后缀并转小写）
// 非命令文本返回空字符串
func commandName(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name)
}

// isCommand 是否为命令消息（命令不参与自动删除）
func isCommand(msg *botModels.Message) bool {
	return msg != nil && commandName(msg.Text) != ""
}

// matchCommand 返回匹配指定命令的 MatchFunc，支持 /cmd@botname 形式
func matchCommand(name string) bot.MatchFunc {
	return func(update *botModels.Update) bool {
		return update != nil && update.Message != nil && commandName(update.Message.Text) == name
	}
}

// parseSetTimerArgs 解析 /settimer 的整数参数
func parseSetTimerArgs(text string) (int, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return 0, ErrUsage
	}

	value, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid argument %q", ErrUsage, fields[1])
	}
	return value, nil
}
