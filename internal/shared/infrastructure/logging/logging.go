// Package logging builds the process logger: a charmbracelet/log handler behind
// log/slog, optionally teeing into a rotating file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects level and destinations.
type Config struct {
	// Level is debug, info, warn or error. Unknown values mean info.
	Level string
	// File, when set, receives a rotated copy of every record.
	File string
	// Prefix is printed before each message.
	Prefix string
	// JSON switches the formatter, used by the worker in production.
	JSON bool
	// Writer defaults to stderr.
	Writer io.Writer
}

// New returns the slog logger and a closer for the log file.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, err
		}
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = io.MultiWriter(w, file)
		closer = file
	}

	opts := log.Options{
		ReportTimestamp: true,
		Level:           ParseLevel(cfg.Level),
		Prefix:          cfg.Prefix,
	}
	if opts.Level == log.DebugLevel {
		opts.ReportCaller = true
	}
	if cfg.JSON {
		opts.Formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(w, opts)
	return slog.New(handler), closer, nil
}

// ParseLevel maps a LOG_LEVEL value to a charmbracelet level.
func ParseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
