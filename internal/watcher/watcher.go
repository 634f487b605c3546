// Package watcher turns on-disk repository state changes into events.
//
// For every repository it watches the git directory (HEAD, packed-refs)
// and each directory under refs/heads. Checkouts, commits, branch renames
// and resets all rewrite one of those files.
package watcher

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Iron-Ham/branchtint/internal/event"
	"github.com/Iron-Ham/branchtint/internal/gitrepo"
	"github.com/Iron-Ham/branchtint/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events a single git command
// produces (lock file, rename, reflog) into one notification.
const DefaultDebounce = 50 * time.Millisecond

// Watcher publishes repository.opened and repository.changed events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	bus      *event.Bus
	logger   *logging.Logger
	debounce time.Duration

	// Map of repository root -> repository
	repos map[string]gitrepo.Repository

	// Map of watched directory -> repository root
	dirs map[string]string

	mu       sync.RWMutex
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l.WithComponent("watcher")
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a Watcher that publishes to bus.
func New(bus *event.Bus, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		bus:      bus,
		logger:   logging.NopLogger(),
		debounce: DefaultDebounce,
		repos:    make(map[string]gitrepo.Repository),
		dirs:     make(map[string]string),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts watching repo. Repositories are keyed by root: watching a
// root twice is a no-op and returns false. The first Watch of a root
// publishes repository.opened.
func (w *Watcher) Watch(repo gitrepo.Repository) (bool, error) {
	w.mu.Lock()
	if _, ok := w.repos[repo.Root]; ok {
		w.mu.Unlock()
		return false, nil
	}

	if err := w.addDir(repo.GitDir, repo.Root); err != nil {
		w.mu.Unlock()
		return false, err
	}
	w.addTree(filepath.Join(repo.GitDir, "refs", "heads"), repo.Root)
	w.repos[repo.Root] = repo
	w.mu.Unlock()

	w.logger.Info("watching repository", "root", repo.Root, "git_dir", repo.GitDir)
	w.bus.Publish(event.NewRepositoryOpenedEvent(repo.Root))
	return true, nil
}

// Watched returns the roots being watched, sorted.
func (w *Watcher) Watched() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	roots := make([]string, 0, len(w.repos))
	for root := range w.repos {
		roots = append(roots, root)
	}
	slices.Sort(roots)
	return roots
}

// Start begins watching for file changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher and waits for the event loop to exit. It is safe
// to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
}

// Done is closed when the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// addDir must be called with w.mu held.
func (w *Watcher) addDir(dir, root string) error {
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = root
	return nil
}

// addTree watches dir and every directory below it. Missing directories
// are skipped. Must be called with w.mu held.
func (w *Watcher) addTree(dir, root string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}
		if d.IsDir() {
			if err := w.addDir(path, root); err != nil {
				w.logger.Debug("failed to watch directory", "path", path, "error", err.Error())
			}
		}
		return nil
	})
}

// watchLoop processes filesystem events
func (w *Watcher) watchLoop() {
	defer close(w.done)

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer

	// Map of repository root -> changed path
	pending := make(map[string]string)

	for {
		select {
		case <-w.stopCh:
			debounceTimer.Stop()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			root, relevant := w.handleFileEvent(ev)
			if !relevant {
				continue
			}
			pending[root] = ev.Name
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			changed := pending
			pending = make(map[string]string)

			roots := make([]string, 0, len(changed))
			for root := range changed {
				roots = append(roots, root)
			}
			slices.Sort(roots)
			for _, root := range roots {
				w.logger.Debug("repository changed", "root", root, "path", changed[root])
				w.bus.Publish(event.NewRepositoryChangedEvent(root, changed[root]))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err.Error())
		}
	}
}

// handleFileEvent maps ev to a repository root and reports whether it can
// affect the current branch. New directories under refs/heads are watched.
func (w *Watcher) handleFileEvent(ev fsnotify.Event) (string, bool) {
	if ev.Op == fsnotify.Chmod {
		return "", false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	root, ok := w.dirs[filepath.Dir(ev.Name)]
	if !ok {
		return "", false
	}
	repo := w.repos[root]

	base := filepath.Base(ev.Name)
	if strings.HasSuffix(base, ".lock") {
		return "", false
	}

	refs := filepath.Join(repo.GitDir, "refs")
	inRefs := strings.HasPrefix(ev.Name, refs+string(filepath.Separator))
	if inRefs && ev.Has(fsnotify.Create) {
		// A new branch namespace such as refs/heads/feature/
		w.addTree(ev.Name, root)
	}

	return root, inRefs || base == "HEAD" || base == "packed-refs"
}
