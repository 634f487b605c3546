package highlighter

import (
	"context"
	"time"

	"github.com/Iron-Ham/branchtint/internal/config"
	"github.com/Iron-Ham/branchtint/internal/event"
)

// Subscribe registers the Highlighter on its bus for every recompute event.
// It subscribes at most once no matter how often it is called, so a
// repository reported by several sources still causes one render per
// change. Events only queue a render; Run performs it.
func (h *Highlighter) Subscribe() {
	if h.bus == nil {
		return
	}
	h.subscribeOnce.Do(func() {
		h.subID = h.bus.SubscribeTypes(event.RecomputeTypes(), h.handleEvent)
	})
}

// Close removes the bus subscription. Color customizations are left as
// they are.
func (h *Highlighter) Close() {
	if h.bus != nil && h.subID != "" {
		h.bus.Unsubscribe(h.subID)
	}
}

func (h *Highlighter) handleEvent(e event.Event) {
	if doc, ok := e.(event.DocumentActivatedEvent); ok {
		h.SetActiveDocument(doc.Path)
	}
	h.Request(e.EventType())
}

// Request queues a render. Requests made while one is already queued are
// coalesced into it; the render reads current state either way.
func (h *Highlighter) Request(trigger string) {
	select {
	case h.trigger <- trigger:
	default:
	}
}

// Run renders once, then renders for every queued request until ctx is
// done. A ticker publishes timer.tick at the configured refresh interval
// to catch changes no watcher reported; the interval is re-read after
// every render.
func (h *Highlighter) Run(ctx context.Context) error {
	h.Subscribe()
	defer h.Close()

	interval := h.refreshInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Render(ctx, TriggerStartup)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if h.bus != nil {
				h.bus.Publish(event.NewTimerTickEvent())
			} else {
				h.Request(event.TypeTimerTick)
			}

		case trigger := <-h.trigger:
			h.Render(ctx, trigger)
			if next := h.refreshInterval(); next != interval {
				h.logger.Info("refresh interval changed", "interval", next.String())
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

func (h *Highlighter) refreshInterval() time.Duration {
	cfg := h.currentConfig()
	if cfg.RefreshInterval < config.MinRefreshInterval {
		return config.DefaultRefreshInterval
	}
	return cfg.RefreshInterval
}
