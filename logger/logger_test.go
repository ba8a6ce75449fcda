package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupLogLevel(t *testing.T) {
	tests := []struct {
		input string
		level LogLevel
		ok    bool
	}{
		{"trace", LogLevelTrace, true},
		{"DEBUG", LogLevelDebug, true},
		{"Info", LogLevelInfo, true},
		{"warning", LogLevelWarn, true},
		{"error", LogLevelError, true},
		{"loud", LogLevelInfo, false},
		{"", LogLevelInfo, false},
	}

	for _, tt := range tests {
		level, ok := LookupLogLevel(tt.input)
		assert.Equal(t, tt.level, level, "level for %q", tt.input)
		assert.Equal(t, tt.ok, ok, "known %q", tt.input)
		assert.Equal(t, tt.level, ParseLogLevel(tt.input), "parsed %q", tt.input)
	}
}

func TestLimitedLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	ll := NewLimitedLogger(&buf, LogLevelInfo)

	ll.Debug("hidden %d", 1)
	ll.Info("shown %d", 2)
	Warn("package level %s", "warn")

	out := buf.String()
	assert.NotContains(t, out, "hidden", "debug filtered")
	assert.Contains(t, out, "[INFO] shown 2", "info written")
	assert.Contains(t, out, "[WARN] package level warn", "package-level function uses global logger")

	SetGlobalLevel(LogLevelDebug)
	Debug("now visible")
	assert.Contains(t, buf.String(), "[DEBUG] now visible", "level raised")
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	NewLimitedLogger(&buf, LogLevelInfo)

	Trace("skipped")()
	assert.Empty(t, buf.String(), "trace disabled")

	SetGlobalLevel(LogLevelTrace)
	Trace("timed")()
	assert.Contains(t, buf.String(), "[TRACE] timed: ", "trace enabled")
}

func TestLimitedLogger_RotatesFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge3.log")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	require.NoError(t, err)

	ll := NewLimitedLogger(f, LogLevelInfo)
	ll.maxLines = 10
	for i := range 25 {
		ll.Info("line %d", i)
	}
	require.NoError(t, ll.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")

	assert.LessOrEqual(t, len(lines), 10, "file trimmed")
	assert.Contains(t, lines[len(lines)-1], "line 24", "newest line kept")
}

func TestLimitedLogger_CountsExistingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge3.log")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o666))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0o666)
	require.NoError(t, err)
	defer f.Close()

	ll := NewLimitedLogger(f, LogLevelInfo)

	assert.Equal(t, 3, ll.lineCount, "existing lines counted")
}
