package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"albumview/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swap installs a package logger writing to buf and restores the old one
// when the test ends.
func swap(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := logger
	logger = NewLogger(append([]Option{WithOutput(&buf)}, opts...)...)
	t.Cleanup(func() { logger = original })
	return &buf
}

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "level=warning")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(), "error message")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	buf := swap(t)

	Debug("debug message")
	assert.Empty(t, buf.String())

	SetDebug(true)
	Debug("debug message", 42)
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "debug message: 42")
	buf.Reset()

	Debugf("formatted %s", "debug")
	assert.Contains(t, buf.String(), "formatted debug")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("key1", "value1"), F("key2", 123)).Info("structured message")
	output := buf.String()
	assert.Contains(t, output, "structured message")
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
	buf.Reset()

	l.With(F("key1", "value1")).With(F("key2", 123)).Info("chained fields")
	output = buf.String()
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.With(F("report", "r-1"), F("count", 2)).Info("json message")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "json message", entry["message"])
	assert.Equal(t, "r-1", entry["report"])
	assert.Equal(t, float64(2), entry["count"])
	assert.Contains(t, entry, "timestamp")
}

func TestErrorLogging(t *testing.T) {
	buf := swap(t)

	stdErr := fmt.Errorf("standard error")
	LogWithFields(F("error", stdErr.Error())).Error("error occurred")
	assert.Contains(t, buf.String(), "standard error")
	buf.Reset()

	LogWithError(errors.New("application error")).Error("app error occurred")
	output := buf.String()
	assert.Contains(t, output, "app error occurred")
	assert.Contains(t, output, "error_kind=unknown")
	buf.Reset()

	cfgErr := errors.NewConfigError("config error", "server.url", errors.InvalidConfig, nil)
	LogWithError(cfgErr).Error("config error occurred")
	output = buf.String()
	assert.Contains(t, output, "param=server.url")
	assert.Contains(t, output, "error_kind=invalid_config")
	buf.Reset()

	reqErr := errors.NewStatusError("POST", "http://h/shred/a", 409, "")
	LogError(reqErr, "shred failed")
	output = buf.String()
	assert.Contains(t, output, "shred failed")
	assert.Contains(t, output, "status=409")
	assert.Contains(t, output, "url=\"http://h/shred/a\"")
	buf.Reset()

	LogWithError(errors.ErrOperationInFlight.WithOperation("encrypt")).Warn("refused")
	output = buf.String()
	assert.Contains(t, output, "operation=encrypt")
	assert.Contains(t, output, "error_kind=operation_in_flight")
}

func TestNilErrorHandling(t *testing.T) {
	buf := swap(t)
	LogWithError(nil).Error("nil error test")
	assert.Contains(t, buf.String(), "nil error test")
	assert.Contains(t, buf.String(), "error=\"<nil>\"")
}

func TestWithLevel(t *testing.T) {
	buf := swap(t, WithLevel("warn"))
	Info("hidden")
	Warnf("shown %d", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 1")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albumview.log")
	original := logger
	Configure(WithFile(path, Rotation{MaxSizeMB: 1, MaxBackups: 1}))
	t.Cleanup(func() {
		logger.Close()
		logger = original
	})

	Info("file test %s", "message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file test message")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))
	l.WithContext(nil).Info("context message")
	assert.Contains(t, buf.String(), "context message")
}
