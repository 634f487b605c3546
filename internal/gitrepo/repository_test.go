package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/branchtint/internal/errors"
	"github.com/Iron-Ham/branchtint/internal/testutil"
)

func TestProvider_RepositoryFor(t *testing.T) {
	root := filepath.FromSlash("/nonexistent-branchtint")
	outer := Repository{Root: filepath.Join(root, "mono")}
	inner := Repository{Root: filepath.Join(root, "mono", "vendor", "lib")}
	other := Repository{Root: filepath.Join(root, "monorepo")}

	p := NewProvider(nil)
	p.add(outer)
	p.add(inner)
	p.add(other)

	tests := []struct {
		name string
		path string
		want Repository
		ok   bool
	}{
		{"file in outer", filepath.Join(root, "mono", "main.go"), outer, true},
		{"root itself", filepath.Join(root, "mono"), outer, true},
		{"nested wins", filepath.Join(root, "mono", "vendor", "lib", "x.go"), inner, true},
		{"sibling prefix is not ancestry", filepath.Join(root, "monorepo", "a.go"), other, true},
		{"outside", filepath.Join(root, "elsewhere", "a.go"), Repository{}, false},
		{"empty path", "", Repository{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.RepositoryFor(tt.path)
			if ok != tt.ok || got != tt.want {
				t.Errorf("RepositoryFor(%q) = %+v, %v; want %+v, %v", tt.path, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestProvider_AddIsKeyedByRoot(t *testing.T) {
	var opened []string
	p := NewProvider(nil, WithOpenHandler(func(r Repository) {
		opened = append(opened, r.Root)
	}))

	p.add(Repository{Root: "/a"})
	p.add(Repository{Root: "/b"})
	p.add(Repository{Root: "/a"})

	if len(p.Repositories()) != 2 {
		t.Errorf("Repositories() = %v, want 2 entries", p.Repositories())
	}
	if len(opened) != 2 || opened[0] != "/a" || opened[1] != "/b" {
		t.Errorf("open handler calls = %v, want [/a /b]", opened)
	}
}

func TestProvider_Discover(t *testing.T) {
	testutil.SkipIfNoGit(t)

	first := testutil.SetupTestRepo(t)
	second := testutil.SetupTestRepo(t)
	plain := t.TempDir()
	sub := filepath.Join(first, "pkg")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	var opened int
	p := NewProvider([]string{first, plain, sub, second}, WithOpenHandler(func(Repository) {
		opened++
	}))

	repos, err := p.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("Discover() = %v, want 2 repositories", repos)
	}
	if repos[0].Root != testutil.ResolvedPath(t, first) {
		t.Errorf("repos[0].Root = %q, want %q", repos[0].Root, first)
	}
	if repos[1].Root != testutil.ResolvedPath(t, second) {
		t.Errorf("repos[1].Root = %q, want %q", repos[1].Root, second)
	}
	if filepath.Base(repos[0].GitDir) != ".git" {
		t.Errorf("GitDir = %q, want a .git directory", repos[0].GitDir)
	}
	if opened != 2 {
		t.Errorf("open handler called %d times, want 2", opened)
	}

	// A second discovery finds nothing new.
	if _, err := p.Discover(context.Background()); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if opened != 2 {
		t.Errorf("open handler called %d times after rediscovery, want 2", opened)
	}
}

func TestProvider_Pick(t *testing.T) {
	testutil.SkipIfNoGit(t)

	first := testutil.SetupTestRepo(t)
	second := testutil.SetupTestRepo(t)
	third := testutil.SetupTestRepo(t)

	p := NewProvider([]string{first, second})
	if _, err := p.Discover(context.Background()); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	ctx := context.Background()

	t.Run("no active document uses first", func(t *testing.T) {
		r, ok := p.Pick(ctx, "")
		if !ok || r.Root != testutil.ResolvedPath(t, first) {
			t.Errorf("Pick(\"\") = %+v, %v", r, ok)
		}
	})

	t.Run("active document selects its repository", func(t *testing.T) {
		r, ok := p.Pick(ctx, filepath.Join(second, "README.md"))
		if !ok || r.Root != testutil.ResolvedPath(t, second) {
			t.Errorf("Pick(second) = %+v, %v", r, ok)
		}
	})

	t.Run("document outside workspace opens its repository", func(t *testing.T) {
		r, ok := p.Pick(ctx, filepath.Join(third, "README.md"))
		if !ok || r.Root != testutil.ResolvedPath(t, third) {
			t.Errorf("Pick(third) = %+v, %v", r, ok)
		}
		if len(p.Repositories()) != 3 {
			t.Errorf("Repositories() = %d entries, want 3", len(p.Repositories()))
		}
	})

	t.Run("document outside any repository falls back", func(t *testing.T) {
		r, ok := p.Pick(ctx, filepath.Join(t.TempDir(), "notes.txt"))
		if !ok || r.Root != testutil.ResolvedPath(t, first) {
			t.Errorf("Pick(outside) = %+v, %v", r, ok)
		}
	})
}

func TestProvider_Pick_NoRepositories(t *testing.T) {
	testutil.SkipIfNoGit(t)

	p := NewProvider([]string{t.TempDir()})
	repos, err := p.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(repos) != 0 {
		t.Fatalf("Discover() = %v, want none", repos)
	}
	if _, ok := p.Pick(context.Background(), ""); ok {
		t.Error("Pick() should find nothing")
	}

	_, _, err = p.CurrentBranch(context.Background(), "")
	if !errors.Is(err, errors.ErrNoRepository) {
		t.Errorf("CurrentBranch() error = %v, want ErrNoRepository", err)
	}
}

func TestProvider_Head_RealRepository(t *testing.T) {
	testutil.SkipIfNoGit(t)
	ctx := context.Background()

	t.Run("branch then checkout", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)
		p := NewProvider([]string{dir})
		repos, err := p.Discover(ctx)
		if err != nil || len(repos) != 1 {
			t.Fatalf("Discover() = %v, %v", repos, err)
		}

		head, err := p.Head(ctx, repos[0])
		if err != nil {
			t.Fatalf("Head() error = %v", err)
		}
		if head.Type != HeadBranch || head.Name != "main" {
			t.Errorf("Head() = %+v, want branch main", head)
		}
		if head.Commit != testutil.HeadCommit(t, dir) {
			t.Errorf("Head().Commit = %q", head.Commit)
		}

		testutil.CheckoutNewBranch(t, dir, "release/v1.0")
		branch, _, err := p.CurrentBranch(ctx, "")
		if err != nil || branch != "release/v1.0" {
			t.Errorf("CurrentBranch() = %q, %v; want release/v1.0", branch, err)
		}
	})

	t.Run("detached", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)
		testutil.DetachHead(t, dir)
		p := NewProvider([]string{dir})
		repos, _ := p.Discover(ctx)

		head, err := p.Head(ctx, repos[0])
		if err != nil {
			t.Fatalf("Head() error = %v", err)
		}
		if head.Type != HeadDetached || head.Name != "" || head.Commit == "" {
			t.Errorf("Head() = %+v, want detached", head)
		}

		_, _, err = p.CurrentBranch(ctx, "")
		if !errors.Is(err, errors.ErrNoBranch) {
			t.Errorf("CurrentBranch() error = %v, want ErrNoBranch", err)
		}
	})

	t.Run("unborn", func(t *testing.T) {
		dir := testutil.SetupEmptyRepo(t)
		p := NewProvider([]string{dir})
		repos, _ := p.Discover(ctx)
		if len(repos) != 1 {
			t.Fatalf("Discover() = %v", repos)
		}

		head, err := p.Head(ctx, repos[0])
		if err != nil {
			t.Fatalf("Head() error = %v", err)
		}
		if head.Type != HeadUnborn {
			t.Errorf("Head() = %+v, want unborn", head)
		}
	})
}
