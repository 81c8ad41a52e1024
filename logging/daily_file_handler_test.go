package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyFileHandlerWritesFileAndConsole(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, handler, err := New(dir, false, &console)
	require.NoError(t, err)
	defer handler.Close()

	logger.With(slog.String("session", "s1")).Info("running step", slog.String("step", "Auth"))
	logger.Debug("hidden at info level")

	data, err := os.ReadFile(handler.CurrentFile())
	require.NoError(t, err)
	line := string(data)

	assert.Contains(t, line, "INFO  running step session=s1 step=Auth")
	assert.NotContains(t, line, "hidden")
	assert.Contains(t, console.String(), "step=Auth")
	assert.True(t, strings.HasPrefix(filepath.Base(handler.CurrentFile()), "seeder-"))
}

func TestDailyFileHandlerVerboseEnablesDebug(t *testing.T) {
	var console bytes.Buffer
	logger, handler, err := New(t.TempDir(), true, &console)
	require.NoError(t, err)
	defer handler.Close()

	logger.Debug("context restored")
	assert.Contains(t, console.String(), "context restored")
}

func TestDailyFileHandlerRotates(t *testing.T) {
	dir := t.TempDir()
	handler, err := NewDailyFileHandlerWithConsole(dir, &bytes.Buffer{}, nil)
	require.NoError(t, err)
	defer handler.Close()

	day := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	handler.now = func() time.Time { return day }
	logger := slog.New(handler)

	logger.Info("first")
	assert.Equal(t, filepath.Join(dir, "seeder-2024-05-01.log"), handler.CurrentFile())

	day = day.Add(2 * time.Minute)
	logger.Info("second")
	assert.Equal(t, filepath.Join(dir, "seeder-2024-05-02.log"), handler.CurrentFile())

	first, err := os.ReadFile(filepath.Join(dir, "seeder-2024-05-01.log"))
	require.NoError(t, err)
	assert.Contains(t, string(first), "first")
	assert.NotContains(t, string(first), "second")
}

func TestDerivedHandlersShareFile(t *testing.T) {
	handler, err := NewDailyFileHandlerWithConsole(t.TempDir(), &bytes.Buffer{}, nil)
	require.NoError(t, err)
	defer handler.Close()

	derived := handler.WithAttrs([]slog.Attr{slog.String("component", "gateway")}).WithGroup("g")
	slog.New(derived).Info("from derived")
	slog.New(handler).Info("from root")

	data, err := os.ReadFile(handler.CurrentFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "from derived component=gateway")
	assert.Contains(t, string(data), "from root")
}
