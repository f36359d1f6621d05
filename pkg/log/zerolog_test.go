package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapterWithLogger(zerolog.New(&buf))

	logger.Info("command finished",
		String("command", "load"),
		Int("actions", 2),
		Uint64("seq", 7),
		Bool("superseded", false),
		Duration("duration", time.Second),
		Err(errors.New("boom")),
	)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	got := lines[0]
	assert.Equal(t, "info", got["level"])
	assert.Equal(t, "command finished", got["message"])
	assert.Equal(t, "load", got["command"])
	assert.Equal(t, 2.0, got["actions"])
	assert.Equal(t, 7.0, got["seq"])
	assert.Equal(t, false, got["superseded"])
	assert.Equal(t, "boom", got["error"])
}

func TestZerologAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapterWithLogger(zerolog.New(&buf)).With(String("job", "j1"), Err(errors.New("cause")))

	logger.Warn("first")
	logger.Error("second", String("extra", "x"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, "j1", l["job"])
		assert.Equal(t, "cause", l["error"])
	}
	assert.Equal(t, "x", lines[1]["extra"])
}

func TestZerologAdapter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debug("hidden")
	logger.Info("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestZerologAdapter_Console(t *testing.T) {
	var buf bytes.Buffer
	NewZerologAdapter(&buf, zerolog.DebugLevel).Debug("hello", String("k", "v"))
	assert.Contains(t, buf.String(), "hello")
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopLogger{}, OrNoop(nil))

	l := NewNoopLogger()
	assert.Same(t, l, OrNoop(l))
	assert.NotPanics(t, func() {
		OrNoop(nil).With(String("a", "b")).Info("discarded")
	})
}
