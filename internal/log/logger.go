// Package log is the kernel's file logger. Records are rendered by
// charmbracelet/log and appended to an owner-only file.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
)

// Level is a record severity.
type Level = charmlog.Level

const (
	LevelDebug = charmlog.DebugLevel
	LevelInfo  = charmlog.InfoLevel
	LevelWarn  = charmlog.WarnLevel
	LevelError = charmlog.ErrorLevel
)

// ParseLevel reads a log_level setting. "warning" is accepted and anything
// unknown means warn.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn
	}
	level, err := charmlog.ParseLevel(s)
	if err != nil || level < LevelDebug || level > LevelError {
		return LevelWarn
	}
	return level
}

// Logger serializes records onto one writer.
type Logger struct {
	mu      sync.Mutex
	out     *charmlog.Logger
	closer  io.Closer
	stopped bool
}

var _ domain.Logger = (*Logger)(nil)

// New appends to the file at path, creating its directory. An existing file
// with looser permissions is tightened to 0600.
func New(path string, level Level) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("log: %w", err)
	}

	l := NewWriter(f, level)
	l.closer = f
	return l, nil
}

// NewWriter logs to w, which Close leaves open.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{out: charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		Prefix:          "nitrocid",
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	})}
}

// SetLevel changes the minimum level written.
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.out.SetLevel(level)
	l.mu.Unlock()
}

// Close stops the logger and closes its file. Later records are dropped.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

func (l *Logger) Debug(format string, args ...any) { l.logf(LevelDebug, format, args) }
func (l *Logger) Info(format string, args ...any)  { l.logf(LevelInfo, format, args) }
func (l *Logger) Warn(format string, args ...any)  { l.logf(LevelWarn, format, args) }
func (l *Logger) Error(format string, args ...any) { l.logf(LevelError, format, args) }

func (l *Logger) logf(level Level, format string, args []any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.out.Logf(level, format, args...)
}

var std atomic.Pointer[Logger]

// SetDefault installs l behind the package functions. nil silences them.
func SetDefault(l *Logger) { std.Store(l) }

// Default returns the installed logger, possibly nil.
func Default() *Logger { return std.Load() }

func Debug(format string, args ...any) { std.Load().logf(LevelDebug, format, args) }
func Info(format string, args ...any)  { std.Load().logf(LevelInfo, format, args) }
func Warn(format string, args ...any)  { std.Load().logf(LevelWarn, format, args) }
func Error(format string, args ...any) { std.Load().logf(LevelError, format, args) }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
func (NopLogger) Close() error         { return nil }

var _ domain.Logger = NopLogger{}
