package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}

func TestNewHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, "info", "json")).Info("hello", "route", "demo")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "demo", entry["route"])

	buf.Reset()
	slog.New(newHandler(&buf, "info", "text")).Info("hello", "route", "demo")
	assert.Contains(t, buf.String(), "msg=hello route=demo")
}

func TestNewHandlerLevel(t *testing.T) {
	h := newHandler(&bytes.Buffer{}, "warn", "json")

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
}

func TestNewWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "foodiq.log")
	logger, cleanup, err := New("info", "json", path)
	require.NoError(t, err)

	logger.Info("to file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestNewBadFile(t *testing.T) {
	_, _, err := New("info", "json", filepath.Join(t.TempDir(), "missing", "foodiq.log"))
	assert.Error(t, err)
}
