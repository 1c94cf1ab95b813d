package domain

import (
	"context"
	"io"
	"time"
)

// HistoryEntry is one recorded command line.
type HistoryEntry struct {
	ID        int64
	ShellID   string
	Mode      string
	Line      string
	Code      int
	CreatedAt time.Time
}

// HistoryFilter narrows a history listing. Zero values mean no restriction.
type HistoryFilter struct {
	Mode  string
	Limit int
}

// HistoryStore persists executed command lines.
type HistoryStore interface {
	// Record appends an entry.
	Record(ctx context.Context, entry HistoryEntry) error

	// List returns entries, newest last.
	List(ctx context.Context, filter HistoryFilter) ([]HistoryEntry, error)

	// Trim keeps only the newest keep entries and returns how many were removed.
	Trim(ctx context.Context, keep int) (int64, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}

// ConfigProvider defines operations for reading and writing configuration.
type ConfigProvider interface {
	// Get returns the value for a configuration key.
	Get(key string) (string, bool)

	// GetAll returns all configuration values.
	GetAll() (map[string]string, error)

	// Set sets a configuration value.
	Set(key, value string) error

	// Unset removes a configuration value.
	Unset(key string) error
}

// Logger defines logging operations.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Close() error
}

// OutputWriter defines output operations.
type OutputWriter interface {
	io.Writer

	// Printf formats and prints to the output.
	Printf(format string, args ...any) (int, error)

	// Println prints a line to the output.
	Println(args ...any) (int, error)

	// Pager displays content through a pager if appropriate.
	Pager(content string)
}

// Styler defines text styling operations.
type Styler interface {
	// Enabled returns true if styling is enabled.
	Enabled() bool

	Success(text string) string
	Warning(text string) string
	Error(text string) string
	Info(text string) string
	Muted(text string) string
	Header(text string) string
}
