package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStreamLogger(&buf, FormatText, InfoLevel)
	logger.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }

	ctx := context.Background()
	logger.Debug(ctx, "hidden", nil)
	logger.Info(ctx, "Scanning directory", Fields{"path": "/tmp/a", "count": 3})

	assert.Equal(t, "2026-03-01T12:30:00.000Z [INFO] Scanning directory count=3 path=/tmp/a\n", buf.String())
}

func TestStreamLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStreamLogger(&buf, FormatJSON, DebugLevel)

	logger.Error(context.Background(), "compare failed", errors.New("boom"), Fields{
		"message": "must not override",
		"kind":    "io",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "compare failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "io", entry["kind"])
}

func TestStreamLogger_WithFieldsSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	base := NewStreamLogger(&buf, FormatText, InfoLevel)
	child := base.WithFields(Fields{"run_id": "abc"})

	ctx := context.Background()
	base.Info(ctx, "first", nil)
	child.Info(ctx, "second", Fields{"command": "diff"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "run_id")
	assert.Contains(t, lines[1], "command=diff run_id=abc")

	// Close leaves the writer usable.
	require.NoError(t, child.Close())
	base.Info(ctx, "third", nil)
	assert.Contains(t, buf.String(), "third")
}

func TestOrNull(t *testing.T) {
	assert.IsType(t, &NullLogger{}, OrNull(nil))

	stream := NewStreamLogger(&bytes.Buffer{}, FormatText, InfoLevel)
	assert.Same(t, stream, OrNull(stream))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat(""))
}
