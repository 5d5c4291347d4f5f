package logging_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labeler/internal/config"
	"labeler/internal/logging"
	"labeler/internal/services"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestConsoleLoggerHeaderAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	logger = logging.NewComponentLogger(logger, "session")
	logger.Info("item shown", logging.Int(logging.FieldItemIndex, 3), logging.Item("cats/a.jpg"), logging.String("annotation_path", "/tmp/out.json"))

	content := readLog(t, logPath)
	assert.Contains(t, content, "INFO [session] cats/a.jpg #4 – item shown")
	assert.Contains(t, content, "    - annotation_path: /tmp/out.json")
	assert.NotContains(t, content, "- item:", "item only appears in the header")
	assert.NotContains(t, content, "- component:", "component only appears in the header")
	assert.NotContains(t, content, ".go:", "no caller information at info level")
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	require.NoError(t, err)
	logger.Debug("with caller")

	assert.Contains(t, readLog(t, logPath), "logger_test.go:")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewFromConfigWritesJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, true)
	require.NoError(t, err)
	logger.Info("annotation saved", logging.String("annotation_path", "out.json"))

	content := readLog(t, filepath.Join(cfg.Logging.Dir, logging.LogFileName))
	assert.Contains(t, content, `"msg":"annotation saved"`)
	assert.Contains(t, content, `"level":"info"`)
}

func TestWithContextAddsSessionFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	base, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	ctx := services.WithSessionID(context.Background(), "sess-1")
	ctx = services.WithItemIndex(ctx, 2)
	logging.WithContext(ctx, base).Info("context fields")

	content := readLog(t, logPath)
	assert.Contains(t, content, `"session_id":"sess-1"`)
	assert.Contains(t, content, `"item_index":2`)
}

func TestErrorWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "err.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	logging.ErrorWithContext(logger, "save failed", "annotation_save_failed", logging.Error(errors.New("disk full")))

	content := readLog(t, logPath)
	for _, want := range []string{`"event_type":"annotation_save_failed"`, `"error_hint":"check logs for details"`, `"error":"disk full"`} {
		assert.Contains(t, content, want)
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	assert.NotPanics(t, func() { logging.WarnWithContext(nil, "ignored", "noop") })
}
