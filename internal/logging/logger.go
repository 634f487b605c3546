package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log levels accepted by NewLogger. Matching is case-insensitive.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the name of the log file inside the log directory.
const LogFileName = "branchtint.log"

var slogLevels = map[string]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// Logger writes structured JSON log lines. Child loggers created with the
// With* methods share the parent's output. It is safe for concurrent use.
type Logger struct {
	slog   *slog.Logger
	closer io.Closer
}

// NewLogger creates a Logger that appends to {dir}/branchtint.log, rotated
// with DefaultRotationConfig. An empty dir logs to stderr.
//
// Messages below level are dropped; unknown levels mean INFO.
func NewLogger(dir string, level string) (*Logger, error) {
	return NewLoggerWithRotation(dir, level, DefaultRotationConfig())
}

// NewLoggerWithRotation is NewLogger with an explicit rotation policy.
func NewLoggerWithRotation(dir string, level string, rotation RotationConfig) (*Logger, error) {
	if dir == "" {
		return newLogger(os.Stderr, nil, level), nil
	}
	rw, err := NewRotatingWriter(filepath.Join(dir, LogFileName), rotation)
	if err != nil {
		return nil, err
	}
	return newLogger(rw, rw, level), nil
}

// NewWriterLogger creates a Logger that writes to w. Close leaves w open.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger(w, nil, level)
}

func newLogger(w io.Writer, closer io.Closer, level string) *Logger {
	opts := &slog.HandlerOptions{Level: slogLevels[ParseLevel(level)]}
	return &Logger{
		slog:   slog.New(slog.NewJSONHandler(w, opts)),
		closer: closer,
	}
}

// NopLogger returns a Logger that discards everything.
func NopLogger() *Logger {
	return &Logger{slog: slog.New(slog.DiscardHandler)}
}

// ParseLevel normalizes level to one of the Level constants, defaulting to
// LevelInfo.
func ParseLevel(level string) string {
	level = strings.ToUpper(level)
	if _, ok := slogLevels[level]; ok {
		return level
	}
	return LevelInfo
}

// WithComponent tags log lines with the subsystem that wrote them
// ("watcher", "highlighter", "workbench", ...).
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// WithRepository tags log lines with a repository root.
func (l *Logger) WithRepository(root string) *Logger {
	return l.With("repository", root)
}

// WithBranch tags log lines with a branch name.
func (l *Logger) WithBranch(branch string) *Logger {
	return l.With("branch", branch)
}

// With returns a child Logger carrying the given key-value pairs. Pairs
// whose key is not a string are skipped.
func (l *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			attrs = append(attrs, slog.Any(key, args[i+1]))
		}
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{slog: l.slog.With(attrs...), closer: l.closer}
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// Close closes the log file. Stderr and writer-backed loggers are left open.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
