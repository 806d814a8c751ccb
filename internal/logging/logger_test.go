package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	l.Debug("debug", "key", "value")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	_, ok := l.With("key", "value").(NopLogger)
	assert.True(t, ok, "With should return NopLogger")
}

func TestSlogAdapter(t *testing.T) {
	t.Run("nil uses default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		require.NotNil(t, adapter.logger)
	})

	t.Run("writes attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewText(&buf, slog.LevelDebug)

		logger.With("client", "api").Warn("full response forced", "operation", "getMovie")

		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "client=api")
		assert.Contains(t, out, "operation=getMovie")
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewText(&buf, slog.LevelWarn)

		logger.Info("hidden")
		logger.Debug("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
