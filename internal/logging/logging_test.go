package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/backoffice-suite/backoffice/internal/config"
	clog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("HOME", tmp)
	t.Setenv("BACKOFFICE_DOTENV_PATH", filepath.Join(tmp, "missing.env"))
	config.Load()
	return tmp
}

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestConfigFromGlobal(t *testing.T) {
	setupTest(t)

	t.Setenv("BACKOFFICE_LOGGING_ENABLED", "true")
	t.Setenv("BACKOFFICE_LOGGING_LEVEL", "warn")
	t.Setenv("BACKOFFICE_LOGGING_MAX_FILES", "5")
	config.Load()

	cfg := FromGlobalConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, "warn", cfg.Level)
	require.Equal(t, 5, cfg.MaxFiles)
	require.Equal(t, filepath.Base(os.Args[0]), cfg.Command)
	require.Equal(t, os.Getpid(), cfg.PID)
}

func TestDebugForcesDebugLevel(t *testing.T) {
	setupTest(t)

	t.Setenv("BACKOFFICE_DEBUG", "true")
	t.Setenv("BACKOFFICE_LOGGING_LEVEL", "error")
	config.Load()
	require.Equal(t, "debug", FromGlobalConfig().Level)

	t.Setenv("BACKOFFICE_DEBUG", "false")
	config.Load()
	require.Equal(t, "error", FromGlobalConfig().Level)
}

func TestLogDir(t *testing.T) {
	tmp := setupTest(t)

	dir, err := LogDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "backoffice", "logs"), dir)
	require.DirExists(t, dir)
}

func TestLogDirFallback(t *testing.T) {
	tmp := setupTest(t)

	// A regular file where the state dir should be makes MkdirAll fail.
	blocker := filepath.Join(tmp, "blocked")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	t.Setenv("BACKOFFICE_STATE_DIR", blocker)
	config.Load()

	dir, err := LogDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(os.TempDir(), "backoffice", "logs"), dir)
}

func TestInitDisabled(t *testing.T) {
	tmp := setupTest(t)

	logger, err := Init(Config{Enabled: false})
	require.NoError(t, err)
	require.IsType(t, noopLogger{}, logger)
	logger.Info("ignored")
	require.NoError(t, logger.Shutdown())

	_, statErr := os.Stat(filepath.Join(tmp, "backoffice", "logs"))
	require.True(t, os.IsNotExist(statErr))
}

func TestInitEnabledCreatesFile(t *testing.T) {
	setupTest(t)

	logger, err := Init(Config{Enabled: true, Level: "info", MaxFiles: 3, Command: "list stations", PID: 4242})
	require.NoError(t, err)
	defer logger.Shutdown()

	path := logger.(*loggerImpl).filePath()
	base := filepath.Base(path)
	require.True(t, strings.HasPrefix(base, logFilePrefix))
	require.Contains(t, base, "_PID4242_")
	require.True(t, strings.HasSuffix(base, "_list_stations.log"))
	require.FileExists(t, path)
}

func TestLoggingWritesJSON(t *testing.T) {
	setupTest(t)

	logger, err := Init(Config{Enabled: true, Level: "debug", MaxFiles: 3, Command: "tui", PID: 7})
	require.NoError(t, err)

	logger.Debug("fetching page", "resource", "stations", "page", 2)
	logger.Error("request failed", "error", fmt.Errorf("connection refused"))
	path := logger.(*loggerImpl).filePath()
	require.NoError(t, logger.Shutdown())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entries := decodeLines(t, data)
	require.Len(t, entries, 2)

	require.Equal(t, "fetching page", entries[0]["msg"])
	require.Equal(t, "debug", entries[0]["level"])
	require.Equal(t, "stations", entries[0]["resource"])
	require.EqualValues(t, 2, entries[0]["page"])
	require.EqualValues(t, 7, entries[0]["pid"])
	require.Equal(t, "tui", entries[0]["command"])
	_, err = time.Parse(time.RFC3339Nano, entries[0]["time"].(string))
	require.NoError(t, err)

	require.Equal(t, "connection refused", entries[1]["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)
	require.Equal(t, "w", entries[0]["msg"])
	require.Equal(t, "e", entries[1]["msg"])
}

func TestRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	logger.Info("calling api", "api_token", "abc123", "Authorization", "Bearer xyz", "resource", "clients")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 1)
	require.Equal(t, "[REDACTED]", entries[0]["api_token"])
	require.Equal(t, "[REDACTED]", entries[0]["Authorization"])
	require.Equal(t, "clients", entries[0]["resource"])
}

func TestRedactionEdgeCases(t *testing.T) {
	r := newRedactor()

	require.Empty(t, r.redact(nil))

	in := []any{"password", "hunter2", 42, "value", "dangling"}
	out := r.redact(in)
	require.Equal(t, "[REDACTED]", out[1])
	require.Equal(t, 42, out[2], "non-string keys are left alone")
	require.Equal(t, "dangling", out[4], "odd trailing element is kept")
	require.Equal(t, "hunter2", in[1], "input slice is not modified")

	require.True(t, r.isSensitive("X-Api-Key"))
	require.True(t, r.isSensitive("client.secret"))
	require.False(t, r.isSensitive("keyboard"))
	require.False(t, r.isSensitive("monkey"))
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s%d.log", logFilePrefix, i))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mod, mod))
	}
	other := filepath.Join(dir, "unrelated.log")
	require.NoError(t, os.WriteFile(other, nil, 0600))

	require.NoError(t, rotate(dir, 2))

	for i := 0; i < 3; i++ {
		require.NoFileExists(t, filepath.Join(dir, fmt.Sprintf("%s%d.log", logFilePrefix, i)))
	}
	require.FileExists(t, filepath.Join(dir, logFilePrefix+"3.log"))
	require.FileExists(t, filepath.Join(dir, logFilePrefix+"4.log"))
	require.FileExists(t, other)
}

func TestRotationEdgeCases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, logFilePrefix+"only.log")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	require.NoError(t, rotate(dir, 0), "zero disables rotation")
	require.NoError(t, rotate(dir, -1))
	require.NoError(t, rotate(dir, 5), "under the limit")
	require.FileExists(t, path)

	require.Error(t, rotate(filepath.Join(dir, "missing"), 1))
}

func TestGlobalLogger(t *testing.T) {
	require.IsType(t, noopLogger{}, GetGlobal())
	require.Equal(t, "", CurrentLogFile())

	// Package-level helpers must not panic without initialization.
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	require.NotNil(t, With("k", "v"))
	require.NoError(t, ShutdownGlobal())
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	child := logger.With("resource", "invoices", "admin_id", 3)
	child.Info("loaded", "count", 12)
	logger.Info("parent")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)
	require.Equal(t, "invoices", entries[0]["resource"])
	require.EqualValues(t, 3, entries[0]["admin_id"])
	require.EqualValues(t, 12, entries[0]["count"])
	_, ok := entries[1]["resource"]
	require.False(t, ok, "parent is unaffected by With")

	require.NoError(t, child.Shutdown())
}

func TestLevelParsing(t *testing.T) {
	cases := map[string]clog.Level{
		"debug":   clog.DebugLevel,
		"DEBUG":   clog.DebugLevel,
		"info":    clog.InfoLevel,
		"warn":    clog.WarnLevel,
		"warning": clog.WarnLevel,
		"error":   clog.ErrorLevel,
		"bogus":   clog.InfoLevel,
		"":        clog.InfoLevel,
	}
	for in, want := range cases {
		require.Equal(t, want, parseLevel(in), in)
	}
}
