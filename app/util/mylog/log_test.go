package mylog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"goodstore/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardToTelegram(t *testing.T) {
	plain := slog.NewRecord(time.Now(), slog.LevelInfo, "plain", 0)

	tagged := slog.NewRecord(time.Now(), slog.LevelInfo, "tagged", 0)
	tagged.AddAttrs(slog.Bool(telegramAttr, true))

	failure := slog.NewRecord(time.Now(), slog.LevelError, "failure", 0)

	assert.False(t, forwardToTelegram(context.Background(), plain))
	assert.True(t, forwardToTelegram(context.Background(), tagged))
	assert.True(t, forwardToTelegram(context.Background(), failure))
}

func TestInit_ConsoleOnly(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, Init(&config.Config{}))
	assert.NotSame(t, prev, slog.Default())
}
