package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{"BOT_TOKEN": "123:abc"}))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, DefaultDelaySeconds, cfg.DelaySeconds)
	assert.Nil(t, cfg.AllowedChatIDs)
	assert.Nil(t, cfg.BotOwnerIDs)
	assert.Equal(t, DefaultMongoDBName, cfg.MongoDBName)
	assert.Equal(t, DefaultDeleteRatePerSecond, cfg.DeleteRatePerSecond)
	assert.Equal(t, DefaultWorkerCount, cfg.WorkerCount)
	assert.Equal(t, DefaultWorkerQueueSize, cfg.WorkerQueueSize)
	assert.Equal(t, DefaultLogRetentionDays, cfg.LogRetentionDays)
	assert.False(t, cfg.Debug)
}

func TestFromEnvMissingToken(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{"DELETE_DELAY_SECONDS": "60"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingToken))
}

func TestFromEnvAcceptsMaxDelay(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{"BOT_TOKEN": "t", "DELETE_DELAY_SECONDS": "172800"}))
	require.NoError(t, err)
	assert.Equal(t, MaxDelaySeconds, cfg.DelaySeconds)
}

func TestFromEnvTelegramTokenFallback(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{"TELEGRAM_TOKEN": "fallback"}))
	require.NoError(t, err)
	assert.Equal(t, "fallback", cfg.TelegramToken)
}

func TestFromEnvParsesLists(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"BOT_TOKEN":            "t",
		"ALLOWED_CHAT_IDS":     "-1001, -1002 ,,",
		"BOT_OWNER_IDS":        "42",
		"DELETE_DELAY_SECONDS": "300",
		"BOT_DEBUG":            "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, []int64{-1001, -1002}, cfg.AllowedChatIDs)
	assert.Equal(t, []int64{42}, cfg.BotOwnerIDs)
	assert.Equal(t, 300, cfg.DelaySeconds)
	assert.True(t, cfg.Debug)
}

func TestFromEnvInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{name: "non numeric chat id", key: "ALLOWED_CHAT_IDS", value: "-1001,abc", wantMsg: "ALLOWED_CHAT_IDS"},
		{name: "non numeric owner", key: "BOT_OWNER_IDS", value: "x", wantMsg: "BOT_OWNER_IDS"},
		{name: "zero delay", key: "DELETE_DELAY_SECONDS", value: "0", wantMsg: "DELETE_DELAY_SECONDS"},
		{name: "delay above 48h", key: "DELETE_DELAY_SECONDS", value: "172801", wantMsg: "DELETE_DELAY_SECONDS"},
		{name: "delay overflowing duration", key: "DELETE_DELAY_SECONDS", value: "10000000000", wantMsg: "DELETE_DELAY_SECONDS"},
		{name: "negative rate", key: "DELETE_RATE_PER_SECOND", value: "-3", wantMsg: "DELETE_RATE_PER_SECOND"},
		{name: "bad debug flag", key: "BOT_DEBUG", value: "maybe", wantMsg: "BOT_DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envFrom(map[string]string{"BOT_TOKEN": "t", tt.key: tt.value}))
			if err == nil {
				t.Fatalf("expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
