package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogLevelMapping(t *testing.T) {
	tests := []struct {
		in   LogLevel
		want zapcore.Level
	}{
		{DebugLevel, zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{ErrorLevel, zapcore.ErrorLevel},
		{InfoLevel, zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.zapLevel(), "level %q", tt.in)
	}
}

func TestInitLoggerWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "beatbox.log")

	require.NoError(t, InitLogger(Config{Level: DebugLevel, OutputPath: path, MaxSize: 1}))
	Info("catalog ready", String("kind", "beat"), Int("count", 3), Strings("dirs", []string{"beats", "prods"}))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"catalog ready"`)
	assert.Contains(t, string(data), `"kind":"beat"`)
	assert.Contains(t, string(data), `"dirs":["beats","prods"]`)
}
