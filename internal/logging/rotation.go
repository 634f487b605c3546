package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// RotationConfig bounds the size of the log on disk.
type RotationConfig struct {
	// MaxSizeMB is the size at which the file is rotated. 0 disables rotation.
	MaxSizeMB int
	// MaxBackups is how many rotated files (.1, .2, ...) are kept.
	MaxBackups int
}

// DefaultRotationConfig keeps at most about 15MB of logs.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{MaxSizeMB: 5, MaxBackups: 2}
}

// RotatingWriter appends to a file and moves it aside to path.1 once the
// next write would exceed the size limit. Older backups shift up by one and
// the oldest is dropped. It is safe for concurrent use.
type RotatingWriter struct {
	path       string
	limit      int64
	maxBackups int

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewRotatingWriter opens path for appending, creating its directory.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		path:       path,
		limit:      int64(cfg.MaxSizeMB) << 20,
		maxBackups: cfg.MaxBackups,
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *RotatingWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(rw.path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(rw.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	rw.file, rw.size = f, info.Size()
	return nil
}

func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file != nil && rw.limit > 0 && rw.size > 0 && rw.size+int64(len(p)) > rw.limit {
		if err := rw.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
		}
	}
	if rw.file == nil {
		return 0, os.ErrClosed
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

// rotate is called with mu held. On failure the writer keeps appending to
// the current path if it can be reopened.
func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil

	var renameErr error
	if rw.maxBackups > 0 {
		for i := rw.maxBackups; i > 1; i-- {
			_ = os.Rename(rw.backup(i-1), rw.backup(i))
		}
		renameErr = os.Rename(rw.path, rw.backup(1))
	} else {
		renameErr = os.Remove(rw.path)
	}

	if err := rw.open(); err != nil {
		return err
	}
	if renameErr != nil {
		return fmt.Errorf("failed to move log file aside: %w", renameErr)
	}
	return nil
}

func (rw *RotatingWriter) backup(n int) string {
	return rw.path + "." + strconv.Itoa(n)
}

// Close syncs and closes the file. Later writes fail with os.ErrClosed.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	f := rw.file
	rw.file = nil
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	return f.Close()
}
