package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "input %q", tt.input)
	}
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, "info", "json"))
	log.Debug("hidden")
	log.Info("query done", "agent", "PIP")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "query done", entry["msg"])
	assert.Equal(t, "PIP", entry["agent"])
}

func TestTextHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, "warn", "text"))
	log.Info("skipped")
	log.Warn("fallback vote")
	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "fallback vote")
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mafia.log")
	log, closer, err := New("debug", "text", path)
	require.NoError(t, err)
	log.Debug("to file")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to file"))
}

func TestNewBadPath(t *testing.T) {
	_, _, err := New("info", "text", filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}
