package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger("fetch", zap.New(core))

	l.Debug("debug %d", 1)
	l.Info("info %s", "two")
	l.Warn("warn")
	l.Error("error: %v", "boom")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "debug 1", entries[0].Message)
	assert.Equal(t, "info two", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "error: boom", entries[3].Message)
	assert.Equal(t, "fetch", entries[0].LoggerName)
}

func TestNewZapLogger_NilBase(t *testing.T) {
	l := NewZapLogger("", nil)
	assert.NotPanics(t, func() {
		l.Info("discarded")
	})
}

func TestNewFileLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saher.log")

	l, closeFn, err := NewFileLogger("dash", path)
	require.NoError(t, err)

	l.Info("dashboard started")
	l.Error("chart fetch failed: %s", "timeout")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dashboard started")
	assert.Contains(t, string(data), "chart fetch failed: timeout")
}

func TestEnvLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")
	assert.Equal(t, zapcore.InfoLevel, envLevel())

	t.Setenv(DebugEnv, "1")
	assert.Equal(t, zapcore.DebugLevel, envLevel())
}

func TestNoopLogger(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("test")
		l.Info("test")
		l.Warn("test")
		l.Error("test")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %d", 1)
	l.Info("info")
	l.Warn("warn")
	l.Error("error %s", "x")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug 1"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "error", Message: "error x"}, l.Messages[3])
	assert.True(t, l.HasLevel("warn"))

	l.Clear()
	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("warn"))
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("hello")

	assert.True(t, buf.HasLevel("info"))
}
