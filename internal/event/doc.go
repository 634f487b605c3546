// Package event provides the pub-sub bus that turns host notifications into
// render triggers.
//
// Every source of "something may have changed" publishes here: the fsnotify
// repository watcher, the config file watcher, the active-document feed, the
// periodic ticker and the interactive UI. The highlighter subscribes exactly
// once, to [RecomputeTypes], so a repository that is reachable through two
// discovery paths can never register two change handlers.
//
// # Event Types
//
//   - document.activated, repository.opened, repository.changed,
//     config.changed, refresh.requested, timer.tick: recompute triggers
//   - render.completed: published by the highlighter after each render
//
// # Basic Usage
//
//	bus := event.NewBus()
//	bus.SubscribeTypes(event.RecomputeTypes(), func(e event.Event) {
//	    h.Render(ctx, e.EventType())
//	})
//	bus.Publish(event.NewRepositoryChangedEvent(root, headPath))
//
// The [Bus] is safe for concurrent use. Handlers run synchronously on the
// publishing goroutine and a panicking handler does not stop delivery.
package event
