// Package surface is where render results become visible: the branch status
// item, user notifications and the diagnostic output.
package surface

import (
	"fmt"
	"io"
	"sync"

	"github.com/Iron-Ham/branchtint/internal/tui/styles"
)

// CopyBranchCommand is the command bound to the status item.
const CopyBranchCommand = "copy-branch"

// StatusTooltip is shown on hover over the status item.
const StatusTooltip = "Current Git branch - Click to copy"

// StatusItem is the branch indicator shown in the status bar.
type StatusItem struct {
	Text       string `json:"text"`
	Tooltip    string `json:"tooltip"`
	Command    string `json:"command"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
	Visible    bool   `json:"visible"`
}

// Status receives status item updates.
type Status interface {
	SetStatus(item StatusItem)
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
}

// RenderStatus formats item as a colored status line. Hidden items render
// as an empty string.
func RenderStatus(item StatusItem) string {
	if !item.Visible {
		return ""
	}
	return styles.StatusItem(item.Foreground, item.Background).Render(item.Text)
}

// Terminal writes status changes and notifications to a line-oriented
// stream. Repeated identical status updates are written once.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	last    StatusItem
	written bool
}

// NewTerminal creates a Terminal writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// SetStatus writes the status line when it differs from the previous one.
func (t *Terminal) SetStatus(item StatusItem) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.written && item == t.last {
		return
	}
	wasVisible := t.written && t.last.Visible
	t.last, t.written = item, true

	switch {
	case item.Visible:
		_, _ = fmt.Fprintln(t.out, RenderStatus(item))
	case wasVisible:
		_, _ = fmt.Fprintln(t.out, styles.Muted.Render("no git branch"))
	}
}

// Info writes an informational message.
func (t *Terminal) Info(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.out, msg)
}

// Warn writes a warning message.
func (t *Terminal) Warn(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.out, styles.Warning.Render(msg))
}

// Discard drops every update.
type Discard struct{}

func (Discard) SetStatus(StatusItem) {}
func (Discard) Info(string)          {}
func (Discard) Warn(string)          {}
