package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// fileState is shared by a handler and every handler derived from it through
// WithAttrs/WithGroup, so they all write to and rotate the same file.
type fileState struct {
	mutex           sync.Mutex
	currentFile     *os.File
	currentFileName string
}

// DailyFileHandler writes every record to seeder-YYYY-MM-DD.log under logDir
// and mirrors it to a console handler.
type DailyFileHandler struct {
	state          *fileState
	logDir         string
	attrs          string
	defaultHandler slog.Handler
	now            func() time.Time
}

// NewDailyFileHandler mirrors to os.Stdout.
func NewDailyFileHandler(logDir string, opts *slog.HandlerOptions) (*DailyFileHandler, error) {
	return NewDailyFileHandlerWithConsole(logDir, os.Stdout, opts)
}

func NewDailyFileHandlerWithConsole(logDir string, console io.Writer, opts *slog.HandlerOptions) (*DailyFileHandler, error) {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	h := &DailyFileHandler{
		state:          &fileState{},
		logDir:         logDir,
		defaultHandler: slog.NewTextHandler(console, opts),
		now:            time.Now,
	}

	if err := h.rotateIfNeeded(); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *DailyFileHandler) rotateIfNeeded() error {
	h.state.mutex.Lock()
	defer h.state.mutex.Unlock()

	fileName := fmt.Sprintf("seeder-%s.log", h.now().Format("2006-01-02"))
	if fileName == h.state.currentFileName {
		return nil
	}

	if h.state.currentFile != nil {
		h.state.currentFile.Close()
	}

	f, err := os.OpenFile(filepath.Join(h.logDir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	h.state.currentFile = f
	h.state.currentFileName = fileName
	return nil
}

// CurrentFile is the path records are being written to.
func (h *DailyFileHandler) CurrentFile() string {
	h.state.mutex.Lock()
	defer h.state.mutex.Unlock()
	return filepath.Join(h.logDir, h.state.currentFileName)
}

func (h *DailyFileHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.rotateIfNeeded(); err != nil {
		// If rotation fails, at least log to the console
		return h.defaultHandler.Handle(ctx, r)
	}

	timeStr := r.Time.Format("2006/01/02 15:04:05.000")

	var attrs strings.Builder
	attrs.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&attrs, " %s=%v", a.Key, a.Value)
		return true
	})

	logLine := fmt.Sprintf("[%s] %-5s %s%s\n", timeStr, r.Level.String(), r.Message, attrs.String())

	h.state.mutex.Lock()
	_, err := h.state.currentFile.WriteString(logLine)
	h.state.mutex.Unlock()

	if err2 := h.defaultHandler.Handle(ctx, r); err2 != nil && err == nil {
		err = err2
	}

	return err
}

func (h *DailyFileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	return &DailyFileHandler{
		state:          h.state,
		logDir:         h.logDir,
		attrs:          b.String(),
		defaultHandler: h.defaultHandler.WithAttrs(attrs),
		now:            h.now,
	}
}

func (h *DailyFileHandler) WithGroup(name string) slog.Handler {
	return &DailyFileHandler{
		state:          h.state,
		logDir:         h.logDir,
		attrs:          h.attrs,
		defaultHandler: h.defaultHandler.WithGroup(name),
		now:            h.now,
	}
}

func (h *DailyFileHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.defaultHandler.Enabled(ctx, level)
}

// Close closes the current log file.
func (h *DailyFileHandler) Close() error {
	h.state.mutex.Lock()
	defer h.state.mutex.Unlock()
	if h.state.currentFile == nil {
		return nil
	}
	err := h.state.currentFile.Close()
	h.state.currentFile = nil
	h.state.currentFileName = ""
	return err
}
