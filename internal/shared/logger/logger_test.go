package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("creates with default config", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("writes json entries", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l, err := New(&Config{Level: "debug", Format: "json", Output: buf})
		require.NoError(t, err)

		l.Info("test message")
		require.NoError(t, l.Sync())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "test message", entry["msg"])
		assert.Equal(t, "info", entry["level"])
	})

	t.Run("writes console entries", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l, err := New(&Config{Level: "info", Format: "console", Output: buf})
		require.NoError(t, err)

		l.Info("test message")
		output := buf.String()
		assert.Contains(t, output, "test message")
		assert.False(t, strings.HasPrefix(output, "{"))
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New(&Config{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level   string
		debug   bool
		warning bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warning", false, true},
		{"error", false, false},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l, err := New(&Config{Level: tt.level, Output: buf})
			require.NoError(t, err)

			l.Debug("debug line")
			l.Warn("warn line")

			assert.Equal(t, tt.debug, strings.Contains(buf.String(), "debug line"))
			assert.Equal(t, tt.warning, strings.Contains(buf.String(), "warn line"))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héé...", Truncate("hééllo", 3))
	assert.Equal(t, "anything", Truncate("anything", 0))
}
