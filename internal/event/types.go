package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "repository.changed").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeDocumentActivated = "document.activated"
	TypeRepositoryOpened  = "repository.opened"
	TypeRepositoryChanged = "repository.changed"
	TypeConfigChanged     = "config.changed"
	TypeRefreshRequested  = "refresh.requested"
	TypeTimerTick         = "timer.tick"
	TypeRenderCompleted   = "render.completed"
)

// RecomputeTypes returns the event types that trigger a full render.
// render.completed is deliberately absent: it is produced by a render.
func RecomputeTypes() []string {
	return []string{
		TypeDocumentActivated,
		TypeRepositoryOpened,
		TypeRepositoryChanged,
		TypeConfigChanged,
		TypeRefreshRequested,
		TypeTimerTick,
	}
}

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Trigger Events
// -----------------------------------------------------------------------------

// DocumentActivatedEvent is emitted when the editor focuses a different
// document. Path is absolute; empty means no document is active.
type DocumentActivatedEvent struct {
	baseEvent
	Path string
}

// NewDocumentActivatedEvent creates a DocumentActivatedEvent.
func NewDocumentActivatedEvent(path string) DocumentActivatedEvent {
	return DocumentActivatedEvent{
		baseEvent: newBaseEvent(TypeDocumentActivated),
		Path:      path,
	}
}

// RepositoryOpenedEvent is emitted the first time a repository is watched.
type RepositoryOpenedEvent struct {
	baseEvent
	Root string
}

// NewRepositoryOpenedEvent creates a RepositoryOpenedEvent.
func NewRepositoryOpenedEvent(root string) RepositoryOpenedEvent {
	return RepositoryOpenedEvent{
		baseEvent: newBaseEvent(TypeRepositoryOpened),
		Root:      root,
	}
}

// RepositoryChangedEvent is emitted when a repository's HEAD or refs change
// on disk (checkout, commit, branch rename, ...).
type RepositoryChangedEvent struct {
	baseEvent
	Root string // Repository working tree root
	Path string // File that changed inside the git directory
}

// NewRepositoryChangedEvent creates a RepositoryChangedEvent.
func NewRepositoryChangedEvent(root, path string) RepositoryChangedEvent {
	return RepositoryChangedEvent{
		baseEvent: newBaseEvent(TypeRepositoryChanged),
		Root:      root,
		Path:      path,
	}
}

// ConfigChangedEvent is emitted when the branchtint config file changes.
type ConfigChangedEvent struct {
	baseEvent
	File string
}

// NewConfigChangedEvent creates a ConfigChangedEvent.
func NewConfigChangedEvent(file string) ConfigChangedEvent {
	return ConfigChangedEvent{
		baseEvent: newBaseEvent(TypeConfigChanged),
		File:      file,
	}
}

// RefreshRequestedEvent is emitted when the user asks for a re-render.
type RefreshRequestedEvent struct {
	baseEvent
	Source string // "command", "tui", "startup"
}

// NewRefreshRequestedEvent creates a RefreshRequestedEvent.
func NewRefreshRequestedEvent(source string) RefreshRequestedEvent {
	return RefreshRequestedEvent{
		baseEvent: newBaseEvent(TypeRefreshRequested),
		Source:    source,
	}
}

// TimerTickEvent is emitted by the periodic refresh ticker. It covers change
// notifications the file watchers may have missed.
type TimerTickEvent struct {
	baseEvent
}

// NewTimerTickEvent creates a TimerTickEvent.
func NewTimerTickEvent() TimerTickEvent {
	return TimerTickEvent{baseEvent: newBaseEvent(TypeTimerTick)}
}

// -----------------------------------------------------------------------------
// Outcome Events
// -----------------------------------------------------------------------------

// RenderCompletedEvent is emitted after each render with the applied state.
// Colors are empty when State is "no_branch".
type RenderCompletedEvent struct {
	baseEvent
	State      string
	Branch     string
	Repository string
	Pattern    string // Pattern of the matched rule, empty on default colors
	StatusBg   string
	StatusFg   string
	TitleBg    string
	TitleFg    string
	Trigger    string // Event type that caused the render
}

// NewRenderCompletedEvent creates a RenderCompletedEvent.
func NewRenderCompletedEvent(state, branch, repository, trigger string) RenderCompletedEvent {
	return RenderCompletedEvent{
		baseEvent:  newBaseEvent(TypeRenderCompleted),
		State:      state,
		Branch:     branch,
		Repository: repository,
		Trigger:    trigger,
	}
}
