package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNew_Format(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("hello", "table", "tags")
	assert.Contains(t, buf.String(), `"table":"tags"`)

	buf.Reset()
	New(&buf, "info", "text").Info("hello", "table", "tags")
	assert.Contains(t, buf.String(), "table=tags")

	buf.Reset()
	New(&buf, "warn", "text").Info("hidden")
	assert.Empty(t, buf.String())
}

func TestFromContext_RunID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&buf, "info", "text"))
	defer slog.SetDefault(prev)

	ctx := ContextWithRunID(context.Background(), "run-123")
	assert.Equal(t, "run-123", RunID(ctx))

	WithFields(ctx, "table", "tags").Info("started")
	assert.Contains(t, buf.String(), "run_id=run-123")
	assert.Contains(t, buf.String(), "table=tags")

	buf.Reset()
	FromContext(context.Background()).Info("plain")
	assert.NotContains(t, buf.String(), "run_id")
}
