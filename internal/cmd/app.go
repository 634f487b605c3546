package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Iron-Ham/branchtint/internal/clipboard"
	"github.com/Iron-Ham/branchtint/internal/config"
	"github.com/Iron-Ham/branchtint/internal/errors"
	"github.com/Iron-Ham/branchtint/internal/event"
	"github.com/Iron-Ham/branchtint/internal/gitrepo"
	"github.com/Iron-Ham/branchtint/internal/highlighter"
	"github.com/Iron-Ham/branchtint/internal/logging"
	"github.com/Iron-Ham/branchtint/internal/surface"
	"github.com/Iron-Ham/branchtint/internal/tui"
	"github.com/Iron-Ham/branchtint/internal/watcher"
	"github.com/Iron-Ham/branchtint/internal/workbench"
	"github.com/spf13/cobra"
)

// clipboardWriter is replaced in tests.
var clipboardWriter clipboard.Writer = clipboard.System{}

// Messages shown by copy-branch.
const (
	copiedMessage   = "Copied branch: %s"
	noBranchMessage = "No Git branch detected."
)

// app wires the highlighter to its collaborators for one command run.
type app struct {
	cwd      string
	logger   *logging.Logger
	bus      *event.Bus
	provider *gitrepo.Provider
	store    *workbench.Store
	watcher  *watcher.Watcher
	hl       *highlighter.Highlighter
	clip     clipboard.Writer

	mu  sync.RWMutex
	cfg *config.Config
}

type appOptions struct {
	status surface.Status
	// watch enables the repository watcher
	watch bool
}

// newApp loads the configuration and discovers the workspace repositories.
// Configuration errors are returned; a missing git binary or repository is
// not an error.
func newApp(ctx context.Context, cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogDir(), cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
		logger = logging.NopLogger()
	}

	if opts.status == nil {
		opts.status = surface.Discard{}
	}

	a := &app{
		cwd:    cwd,
		logger: logger,
		bus:    event.NewBus(),
		clip:   clipboardWriter,
		cfg:    cfg,
	}
	a.bus.SetLogger(logger)

	if opts.watch {
		w, err := watcher.New(a.bus, watcher.WithLogger(logger))
		if err != nil {
			_ = logger.Close()
			return nil, fmt.Errorf("failed to start repository watcher: %w", err)
		}
		a.watcher = w
		a.watcher.Start()
	}

	a.provider = gitrepo.NewProvider(cfg.WorkspaceFolders(cwd),
		gitrepo.WithLogger(logger),
		gitrepo.WithOpenHandler(a.repositoryOpened),
	)
	if _, err := a.provider.Discover(ctx); err != nil {
		logger.Warn("repository discovery failed", "error", err.Error())
	}

	a.store = workbench.NewOsStore(cfg.SettingsPath(cwd))
	a.hl = highlighter.New(a.settings, a.provider, opts.status,
		highlighter.WithColorStore(a.store),
		highlighter.WithBus(a.bus),
		highlighter.WithLogger(logger),
	)

	if active := activeDocument(cmd); active != "" {
		a.hl.SetActiveDocument(active)
	}

	logger.Info("branchtint started",
		"command", cmd.Name(),
		"folders", strings.Join(cfg.WorkspaceFolders(cwd), ","),
		"settings", a.store.Path(),
	)
	return a, nil
}

// settings returns the current configuration. The highlighter reads it on
// every render.
func (a *app) settings() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// reloadConfig re-reads the configuration. An invalid file keeps the
// previous configuration in effect.
func (a *app) reloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		a.logger.Warn("configuration reload rejected", "error", err.Error())
		return err
	}
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	a.logger.Info("configuration reloaded")
	return nil
}

func (a *app) repositoryOpened(repo gitrepo.Repository) {
	if a.watcher == nil {
		return
	}
	if _, err := a.watcher.Watch(repo); err != nil {
		a.logger.WithRepository(repo.Root).Warn("failed to watch repository", "error", err.Error())
	}
}

// Close stops background work. Color customizations are left in place.
func (a *app) Close() {
	a.hl.Close()
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.logger.Info("branchtint stopped")
	_ = a.logger.Close()
}

// copyBranch writes the current branch name to the clipboard. It returns
// an error wrapping ErrNoRepository or ErrNoBranch when there is nothing to
// copy.
func (a *app) copyBranch(ctx context.Context) (string, error) {
	branch, repo, err := a.provider.CurrentBranch(ctx, a.hl.ActiveDocument())
	if err != nil {
		a.logger.Debug("copy-branch without a branch", "error", err.Error())
		return "", err
	}
	if err := a.clip.WriteText(branch); err != nil {
		a.logger.WithRepository(repo.Root).Warn("clipboard write failed", "error", err.Error())
		return "", err
	}
	a.logger.WithRepository(repo.Root).WithBranch(branch).Info("branch copied")
	return branch, nil
}

// CopyBranch copies the current branch name and describes the outcome.
func (a *app) CopyBranch(ctx context.Context) tui.Notice {
	branch, err := a.copyBranch(ctx)
	switch {
	case errors.IsNoBranch(err):
		return tui.Notice{Level: tui.NoticeWarn, Text: noBranchMessage}
	case err != nil:
		return tui.Notice{Level: tui.NoticeWarn, Text: fmt.Sprintf("Failed to copy branch: %v", err)}
	}
	return tui.Notice{Level: tui.NoticeInfo, Text: fmt.Sprintf(copiedMessage, branch)}
}

// RequestRefresh queues a render.
func (a *app) RequestRefresh() {
	a.bus.Publish(event.NewRefreshRequestedEvent("tui"))
}

// DebugReport formats the resolved state along with configuration warnings.
func (a *app) DebugReport(ctx context.Context) string {
	report := highlighter.FormatDebug(a.hl.Debug(ctx))
	if warnings := a.settings().Lint(); len(warnings) > 0 {
		var sb strings.Builder
		sb.WriteString(report)
		sb.WriteString("\nconfiguration warnings:\n")
		for _, w := range warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
		report = sb.String()
	}
	return report
}

// RuleReport evaluates the rules against the sample branch names.
func (a *app) RuleReport() string {
	return highlighter.FormatRuleTests(a.hl.TestRules(nil))
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
