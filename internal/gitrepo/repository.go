// Package gitrepo answers "which repository, which branch" for a workspace
// by asking the git binary.
package gitrepo

import (
	"context"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Iron-Ham/branchtint/internal/errors"
	"github.com/Iron-Ham/branchtint/internal/logging"
	"github.com/sourcegraph/conc/iter"
)

// Repository is a git working tree known to the Provider.
type Repository struct {
	Root   string `json:"root"`    // Working tree root, symlinks resolved
	GitDir string `json:"git_dir"` // Absolute git directory (".git" or a worktree gitdir)
}

// Provider discovers repositories under the workspace folders and reads
// their HEAD. It is safe for concurrent use.
type Provider struct {
	folders  []string
	executor CommandExecutor
	logger   *logging.Logger
	onOpen   func(Repository)

	mu    sync.RWMutex
	repos []Repository
}

// Option configures a Provider.
type Option func(*Provider)

// WithExecutor replaces the os/exec based executor.
func WithExecutor(e CommandExecutor) Option {
	return func(p *Provider) { p.executor = e }
}

// WithLogger sets the logger used for discovery diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l.WithComponent("gitrepo")
		}
	}
}

// WithOpenHandler registers fn to be called once for every repository the
// Provider learns about, in discovery order.
func WithOpenHandler(fn func(Repository)) Option {
	return func(p *Provider) { p.onOpen = fn }
}

// NewProvider creates a Provider for the given workspace folders.
// No git command runs until Discover or Pick is called.
func NewProvider(folders []string, opts ...Option) *Provider {
	p := &Provider{
		folders:  slices.Clone(folders),
		executor: NewCLICommandExecutor(),
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type discovery struct {
	repo Repository
	err  error
}

// Discover locates the repository containing each workspace folder. Folders
// are queried in parallel; folders that are not inside a repository are
// skipped. The result keeps workspace folder order with duplicates removed.
// ErrGitUnavailable is returned only when the git binary cannot be run.
func (p *Provider) Discover(ctx context.Context) ([]Repository, error) {
	results := iter.Map(p.folders, func(folder *string) discovery {
		repo, err := p.locate(ctx, *folder)
		return discovery{repo: repo, err: err}
	})

	var unavailable error
	for i, r := range results {
		if r.err != nil {
			if errors.Is(r.err, errors.ErrGitUnavailable) {
				unavailable = r.err
			} else {
				p.logger.Debug("workspace folder is not a repository",
					"folder", p.folders[i], "error", r.err.Error())
			}
			continue
		}
		p.add(r.repo)
	}

	repos := p.Repositories()
	if len(repos) == 0 && unavailable != nil {
		return nil, unavailable
	}
	return repos, nil
}

// Open adds the repository containing path, if any, and returns it.
func (p *Provider) Open(ctx context.Context, path string) (Repository, error) {
	dir := path
	if !isDir(path) {
		dir = filepath.Dir(path)
	}
	repo, err := p.locate(ctx, dir)
	if err != nil {
		return Repository{}, err
	}
	p.add(repo)
	return repo, nil
}

// Repositories returns the known repositories in discovery order.
func (p *Provider) Repositories() []Repository {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.repos)
}

// RepositoryFor returns the known repository whose working tree contains
// path. When repositories are nested the deepest root wins.
func (p *Provider) RepositoryFor(path string) (Repository, bool) {
	if path == "" {
		return Repository{}, false
	}
	target := resolvePath(path)

	p.mu.RLock()
	defer p.mu.RUnlock()

	var best Repository
	found := false
	for _, r := range p.repos {
		if !within(r.Root, target) {
			continue
		}
		if !found || len(r.Root) > len(best.Root) {
			best, found = r, true
		}
	}
	return best, found
}

// Pick selects the repository to display: the one owning activePath,
// otherwise the first known repository. An activePath outside every known
// repository is looked up once with git so documents opened from elsewhere
// still resolve.
func (p *Provider) Pick(ctx context.Context, activePath string) (Repository, bool) {
	if activePath != "" {
		if r, ok := p.RepositoryFor(activePath); ok {
			return r, true
		}
		if r, err := p.Open(ctx, activePath); err == nil {
			return r, true
		}
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.repos) == 0 {
		return Repository{}, false
	}
	return p.repos[0], true
}

// GitAvailable reports whether the git binary can be executed.
func (p *Provider) GitAvailable(ctx context.Context) bool {
	_, err := p.executor.Run(ctx, "", "git", "--version")
	return err == nil
}

func (p *Provider) add(repo Repository) {
	p.mu.Lock()
	for _, r := range p.repos {
		if r.Root == repo.Root {
			p.mu.Unlock()
			return
		}
	}
	p.repos = append(p.repos, repo)
	p.mu.Unlock()

	p.logger.Info("repository opened", "root", repo.Root)
	if p.onOpen != nil {
		p.onOpen(repo)
	}
}

func (p *Provider) locate(ctx context.Context, dir string) (Repository, error) {
	out, err := p.git(ctx, dir, "rev-parse", "--show-toplevel", "--absolute-git-dir")
	if err != nil {
		return Repository{}, err
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 || lines[0] == "" {
		// Bare repositories have a git dir but no working tree.
		return Repository{}, errors.NewGitError("no working tree", errors.ErrNotGitRepository).
			WithRepository(dir).
			WithGitOutput(string(out))
	}
	return Repository{
		Root:   resolvePath(strings.TrimSpace(lines[0])),
		GitDir: filepath.Clean(strings.TrimSpace(lines[1])),
	}, nil
}

// git runs a git subcommand and converts failures to GitError.
func (p *Provider) git(ctx context.Context, dir string, args ...string) ([]byte, error) {
	out, err := p.executor.Run(ctx, dir, "git", args...)
	if err == nil {
		return out, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return nil, errors.NewGitError("git executable not found", errors.ErrGitUnavailable)
	}
	var exitErr *exec.ExitError
	stderr := ""
	if errors.As(err, &exitErr) {
		stderr = string(exitErr.Stderr)
	}
	return out, errors.NewGitError("git "+args[0]+" failed", err).
		WithRepository(dir).
		WithGitOutput(stderr)
}

// exitCode returns the process exit status carried by err, or -1.
func exitCode(err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return -1
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
