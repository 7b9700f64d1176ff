package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(WithWriter(&buf), WithLevel(zerolog.InfoLevel))
	require.NoError(t, err)

	l.Debug("hidden %d", 1)
	l.Info("scan %d done", 3)
	zl := l.Zerolog()
	zl.Warn().Str("rarity", "Rare").Msg("[Detector] template not loaded")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "scan 3 done")
	assert.Contains(t, out, `"rarity":"Rare"`)
}

func TestLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "seedbot.log")
	l, err := New(WithFile(path))
	require.NoError(t, err)
	l.Error("capture failed: %v", "timeout")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "capture failed: timeout")
}

func TestLevelFilterDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	f := levelFilter{w: &buf, min: zerolog.InfoLevel}

	n, err := f.WriteLevel(zerolog.DebugLevel, []byte("debug\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Empty(t, buf.String())

	_, err = f.WriteLevel(zerolog.ErrorLevel, []byte("error\n"))
	require.NoError(t, err)
	assert.Equal(t, "error\n", buf.String())
}

func TestAppendCapped(t *testing.T) {
	lines := []string{"a", "b", "c"}
	assert.Equal(t, []string{"b", "c", "d"}, appendCapped(lines, "d", 3))
	assert.Equal(t, []string{"x"}, appendCapped(nil, "x", 0))
}
