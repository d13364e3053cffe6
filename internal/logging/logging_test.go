package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()

	assert.Equal(t, "triesearch.log", filepath.Base(path))
	assert.Contains(t, DefaultLogDir(), ".triesearch")
	assert.Equal(t, DefaultLogDir(), filepath.Dir(path))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.Empty(t, cfg.FilePath)
	assert.True(t, cfg.WriteToStderr)
	assert.Equal(t, filepath.Join(DefaultLogDir(), "triesearch.log"), DefaultLogPath())
}

func TestSetup_FileLogsJSON(t *testing.T) {
	// Given: a file logger at debug level
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")
	logger, cleanup, err := Setup(Config{Level: "debug", FilePath: logPath, MaxSizeMB: 1, MaxFiles: 3})
	require.NoError(t, err)

	// When: logging an event
	logger.Debug("engine_add", slog.Int("records", 2))
	cleanup()

	// Then: the file holds one JSON line
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"engine_add"`)
	assert.Contains(t, string(data), `"records":2`)
}

func TestSetup_NoFileNoStderrDiscards(t *testing.T) {
	logger, cleanup, err := Setup(Config{Level: "debug"})
	require.NoError(t, err)
	defer cleanup()

	logger.Info("dropped")
	assert.NotNil(t, logger)
}

func TestInstall_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logPath := filepath.Join(t.TempDir(), "default.log")
	cleanup, err := Install(Config{Level: "info", FilePath: logPath})
	require.NoError(t, err)

	slog.Info("hello_default")
	slog.Debug("below_level")
	cleanup()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello_default")
	assert.NotContains(t, string(data), "below_level")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestRotatingWriter_Rotation(t *testing.T) {
	// Given: a writer rotating past 1KB
	logPath := filepath.Join(t.TempDir(), "rotate.log")
	w, err := newRotatingWriter(logPath, 1024, 3)
	require.NoError(t, err)
	defer w.Close()

	first := bytes.Repeat([]byte("a"), 800)
	second := bytes.Repeat([]byte("b"), 800)

	// When: the second write would overflow
	_, err = w.Write(first)
	require.NoError(t, err)
	_, err = w.Write(second)
	require.NoError(t, err)

	// Then: the first write moved to .1
	rotated, err := os.ReadFile(logPath + ".1")
	require.NoError(t, err)
	assert.Equal(t, first, rotated)
	current, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, second, current)
}

func TestRotatingWriter_MaxFilesLimit(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "maxfiles.log")
	w, err := newRotatingWriter(logPath, 10, 2)
	require.NoError(t, err)
	defer w.Close()

	for i := range 6 {
		_, err := w.Write([]byte(fmt.Sprintf("line %02d\n", i)))
		require.NoError(t, err)
	}

	assert.FileExists(t, logPath+".1")
	assert.FileExists(t, logPath+".2")
	assert.NoFileExists(t, logPath+".3")

	newest, err := os.ReadFile(logPath + ".1")
	require.NoError(t, err)
	assert.Equal(t, "line 04\n", string(newest))
}

func TestRotatingWriter_AppendsToExistingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "append.log")
	require.NoError(t, os.WriteFile(logPath, []byte("old\n"), 0o644))

	w, err := NewRotatingWriter(logPath, 1, 3)
	require.NoError(t, err)
	_, err = w.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestRotatingWriter_ReopensAfterClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "reopen.log")
	w, err := NewRotatingWriter(logPath, 1, 3)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("after close\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "after close\n", string(data))
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "concurrent.log")
	w, err := NewRotatingWriter(logPath, 10, 3)
	require.NoError(t, err)
	defer w.Close()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				_, _ = fmt.Fprintf(w, "{\"id\":%d,\"iter\":%d}\n", i, j)
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 1000, strings.Count(string(data), "\n"))
}
