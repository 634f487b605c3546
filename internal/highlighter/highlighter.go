// Package highlighter keeps the status item and workbench colors in step
// with the current git branch.
//
// Every render derives its output from scratch: the configuration is read
// fresh, the repository is picked again and HEAD is asked again. Nothing
// observed by a previous render is trusted, so any trigger (a file watcher,
// the periodic tick, a user refresh) converges on the same state.
package highlighter

import (
	"context"
	"sync"
	"time"

	"github.com/Iron-Ham/branchtint/internal/config"
	"github.com/Iron-Ham/branchtint/internal/event"
	"github.com/Iron-Ham/branchtint/internal/gitrepo"
	"github.com/Iron-Ham/branchtint/internal/logging"
	"github.com/Iron-Ham/branchtint/internal/rules"
	"github.com/Iron-Ham/branchtint/internal/surface"
	"github.com/Iron-Ham/branchtint/internal/workbench"
)

// State is the outcome of a render.
type State string

const (
	// NoBranch means no repository, a detached or unborn HEAD, or no git.
	NoBranch State = "no_branch"
	// BranchActive means a branch is checked out and has been rendered.
	BranchActive State = "branch_active"
)

// TriggerStartup is the trigger of the render Run performs before it
// handles any event.
const TriggerStartup = "startup"

// Result describes what a render applied.
type Result struct {
	State      State                `json:"state"`
	Branch     string               `json:"branch,omitempty"`
	Repository string               `json:"repository,omitempty"`
	Colors     rules.ResolvedColors `json:"colors"` // Zero when State is NoBranch
	Rule       *rules.Rule          `json:"rule,omitempty"`
	Trigger    string               `json:"trigger"`
	RenderedAt time.Time            `json:"rendered_at"`
}

// RepositorySource selects a repository and reads its HEAD.
// *gitrepo.Provider implements it.
type RepositorySource interface {
	Pick(ctx context.Context, activePath string) (gitrepo.Repository, bool)
	Head(ctx context.Context, repo gitrepo.Repository) (gitrepo.Head, error)
	GitAvailable(ctx context.Context) bool
}

// ColorStore holds the workbench color customizations.
// *workbench.Store implements it.
type ColorStore interface {
	Snapshot() (workbench.Snapshot, error)
	Apply(colors rules.ResolvedColors) error
	Restore(snap workbench.Snapshot) error
}

// Highlighter renders the current branch onto a status surface and a color
// store. Renders are serialized.
type Highlighter struct {
	settings func() *config.Config
	repos    RepositorySource
	store    ColorStore
	status   surface.Status
	bus      *event.Bus
	logger   *logging.Logger

	// snapshot is the color customization value seen at construction. It
	// is never updated, so restoring always returns to the pre-session state.
	snapshot    workbench.Snapshot
	snapshotErr error

	renderMu sync.Mutex

	mu         sync.RWMutex
	activePath string
	last       Result
	rendered   bool

	subscribeOnce sync.Once
	subID         string
	trigger       chan string
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithColorStore enables workbench color management. Without a store only
// the status item is rendered.
func WithColorStore(store ColorStore) Option {
	return func(h *Highlighter) { h.store = store }
}

// WithBus connects the Highlighter to an event bus: it subscribes to the
// recompute events and publishes render.completed.
func WithBus(bus *event.Bus) Option {
	return func(h *Highlighter) { h.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Highlighter) {
		if l != nil {
			h.logger = l.WithComponent("highlighter")
		}
	}
}

// New creates a Highlighter. settings is called at the start of every
// render. When a color store is configured its current value is
// snapshotted here, once.
func New(settings func() *config.Config, repos RepositorySource, status surface.Status, opts ...Option) *Highlighter {
	h := &Highlighter{
		settings: settings,
		repos:    repos,
		status:   status,
		logger:   logging.NopLogger(),
		trigger:  make(chan string, 1),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.store != nil {
		h.snapshot, h.snapshotErr = h.store.Snapshot()
		if h.snapshotErr != nil {
			h.logger.Warn("failed to snapshot color customizations, restore disabled",
				"error", h.snapshotErr.Error())
		}
	}
	return h
}

// Snapshot returns the color customizations captured by New.
func (h *Highlighter) Snapshot() (workbench.Snapshot, error) {
	return h.snapshot, h.snapshotErr
}

// SetActiveDocument records the path of the focused document. Empty means
// none. It does not render.
func (h *Highlighter) SetActiveDocument(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.activePath = path
}

// ActiveDocument returns the recorded active document path.
func (h *Highlighter) ActiveDocument() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.activePath
}

// Last returns the result of the most recent render and whether one ran.
func (h *Highlighter) Last() (Result, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.rendered
}

// Render derives the branch state and applies it. Failures to reach git or
// the color store degrade the result instead of being returned.
func (h *Highlighter) Render(ctx context.Context, trigger string) Result {
	h.renderMu.Lock()
	defer h.renderMu.Unlock()

	cfg := h.currentConfig()
	result := Result{State: NoBranch, Trigger: trigger, RenderedAt: time.Now()}

	repo, ok := h.repos.Pick(ctx, h.ActiveDocument())
	if ok {
		result.Repository = repo.Root
		head, err := h.repos.Head(ctx, repo)
		if err != nil {
			h.logger.Debug("failed to read HEAD", "root", repo.Root, "error", err.Error())
		} else if branch, ok := head.Branch(); ok {
			result.Branch = branch
			result.State = BranchActive
		}
	}

	if result.State == NoBranch {
		h.renderNoBranch(cfg)
	} else {
		h.renderBranch(cfg, &result)
	}

	h.mu.Lock()
	h.last, h.rendered = result, true
	h.mu.Unlock()

	h.logger.Debug("rendered",
		"state", string(result.State),
		"branch", result.Branch,
		"repository", result.Repository,
		"trigger", trigger)
	h.publish(result)
	return result
}

func (h *Highlighter) renderNoBranch(cfg *config.Config) {
	h.status.SetStatus(surface.StatusItem{Visible: false})

	if !cfg.UpdateTitleBarColors || h.store == nil || h.snapshotErr != nil {
		return
	}
	if err := h.store.Restore(h.snapshot); err != nil {
		h.logger.Warn("failed to restore color customizations", "error", err.Error())
	}
}

func (h *Highlighter) renderBranch(cfg *config.Config, result *Result) {
	colors, ev := rules.ResolveBranch(result.Branch, cfg.Rules, cfg.DefaultColors)
	result.Colors = colors
	if ev.Matched {
		rule := ev.Rule
		result.Rule = &rule
	}
	if len(ev.Invalid) > 0 {
		h.logger.Debug("skipped invalid rule patterns", "patterns", ev.Invalid)
	}

	if cfg.ShowStatusBar {
		h.status.SetStatus(surface.StatusItem{
			Text:       StatusText(cfg.StatusIcon, result.Branch),
			Tooltip:    surface.StatusTooltip,
			Command:    surface.CopyBranchCommand,
			Foreground: colors.StatusFg,
			Background: colors.StatusBg,
			Visible:    true,
		})
	} else {
		h.status.SetStatus(surface.StatusItem{Visible: false})
	}

	if cfg.UpdateTitleBarColors && h.store != nil {
		if err := h.store.Apply(colors); err != nil {
			h.logger.Warn("failed to apply color customizations", "error", err.Error())
		}
	}
}

func (h *Highlighter) currentConfig() *config.Config {
	if cfg := h.settings(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// StatusText formats the status item label.
func StatusText(icon, branch string) string {
	if icon == "" {
		return branch
	}
	return icon + " " + branch
}

func (h *Highlighter) publish(r Result) {
	if h.bus == nil {
		return
	}
	ev := event.NewRenderCompletedEvent(string(r.State), r.Branch, r.Repository, r.Trigger)
	if r.Rule != nil {
		ev.Pattern = r.Rule.Pattern
	}
	ev.StatusBg, ev.StatusFg = r.Colors.StatusBg, r.Colors.StatusFg
	ev.TitleBg, ev.TitleFg = r.Colors.TitleBg, r.Colors.TitleFg
	h.bus.Publish(ev)
}
