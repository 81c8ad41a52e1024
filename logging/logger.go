package logging

import (
	"io"
	"log/slog"
)

// New builds the session logger: Debug level when verbose, Info otherwise.
// The returned handler must be closed on exit.
func New(logDir string, verbose bool, console io.Writer) (*slog.Logger, *DailyFileHandler, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler, err := NewDailyFileHandlerWithConsole(logDir, console, &slog.HandlerOptions{Level: level})
	if err != nil {
		return nil, nil, err
	}
	return slog.New(handler), handler, nil
}
