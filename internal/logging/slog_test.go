package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", false)

	log.With("req_id", "123").Info(context.Background(), "hello", "k", "v")
	log.Warn(context.Background(), "careful")
	log.Error(context.Background(), "boom", "code", 5)

	out := buf.String()
	for _, want := range []string{"level=INFO", "msg=hello", "req_id=123", "k=v", "level=WARN", "level=ERROR", "code=5"} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_JSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "error", true)

	log.Info(context.Background(), "dropped")
	log.Error(context.Background(), "kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
