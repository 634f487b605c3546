// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"sync"

	"github.com/Iron-Ham/branchtint/internal/errors"
	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
// (pbcopy, xclip, xsel, wl-copy or the Windows API).
var ErrUnsupported = errors.New("clipboard not supported on this system")

// Writer places text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// WriteText copies text to the system clipboard.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.Wrap(err, "failed to write clipboard")
	}
	return nil
}

// Memory is an in-process clipboard, used when the system clipboard is
// unavailable and in tests.
type Memory struct {
	mu   sync.Mutex
	text string
}

// WriteText stores text.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
