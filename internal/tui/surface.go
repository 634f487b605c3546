package tui

import (
	"github.com/Iron-Ham/branchtint/internal/event"
	"github.com/Iron-Ham/branchtint/internal/surface"
	tea "github.com/charmbracelet/bubbletea"
)

// Surface forwards status items, notices and renders to a running
// program. Sending blocks until the program receives the message, so it
// must not be called from Update.
type Surface struct {
	send func(tea.Msg)
}

// NewSurface creates a Surface delivering to send, usually
// (*tea.Program).Send.
func NewSurface(send func(tea.Msg)) *Surface {
	return &Surface{send: send}
}

// SetStatus implements surface.Status.
func (s *Surface) SetStatus(item surface.StatusItem) {
	s.send(StatusMsg(item))
}

// Info implements surface.Notifier.
func (s *Surface) Info(msg string) {
	s.send(NoticeMsg{Level: NoticeInfo, Text: msg})
}

// Warn implements surface.Notifier.
func (s *Surface) Warn(msg string) {
	s.send(NoticeMsg{Level: NoticeWarn, Text: msg})
}

// Forward subscribes the Surface to render.completed events on bus and
// returns the subscription ID.
func (s *Surface) Forward(bus *event.Bus) string {
	return bus.Subscribe(event.TypeRenderCompleted, func(e event.Event) {
		if rc, ok := e.(event.RenderCompletedEvent); ok {
			s.send(RenderMsg(rc))
		}
	})
}
