// Package logging builds the charmbracelet/log loggers used by the panel.
//
// The TUI owns the terminal, so the interactive panel logs to a file. The
// one-shot commands log to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// TimeFormat is the timestamp layout written to the log file. The activity
// view in internal/logtail parses it back.
const TimeFormat = "2006-01-02 15:04:05"

// ParseLevel maps a config level name onto a log level. Empty means info.
func ParseLevel(name string) (log.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

// New returns a logger writing to w at the given level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
	}), nil
}

// OpenFile creates the parent directory of path and returns a logger that
// appends to it. The returned closer releases the file.
func OpenFile(path, level string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(file, level)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return logger, file, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
