package gitrepo

import (
	"context"
	"strings"

	"github.com/Iron-Ham/branchtint/internal/errors"
)

// HeadType classifies what HEAD points at.
type HeadType string

const (
	// HeadBranch means HEAD is a symbolic ref to a branch with commits.
	HeadBranch HeadType = "branch"
	// HeadDetached means HEAD points directly at a commit.
	HeadDetached HeadType = "detached"
	// HeadUnborn means HEAD names a branch that has no commits yet.
	HeadUnborn HeadType = "unborn"
)

// Head is the state of a repository's HEAD.
type Head struct {
	Name   string   `json:"name"`   // Short branch name; empty unless Type is HeadBranch
	Commit string   `json:"commit"` // Full commit hash; empty when unborn
	Type   HeadType `json:"type"`
}

// Branch returns the branch name and whether a branch is checked out.
// Detached and unborn heads have no branch.
func (h Head) Branch() (string, bool) {
	if h.Type != HeadBranch || h.Name == "" {
		return "", false
	}
	return h.Name, true
}

// Head reads HEAD of repo. It never caches: every call asks git.
func (p *Provider) Head(ctx context.Context, repo Repository) (Head, error) {
	name, symErr := p.git(ctx, repo.Root, "symbolic-ref", "--quiet", "--short", "HEAD")
	if symErr != nil && errors.Is(symErr, errors.ErrGitUnavailable) {
		return Head{}, symErr
	}
	// symbolic-ref --quiet exits 1 without output when HEAD is detached.
	if symErr != nil && exitCode(symErr) != 1 {
		return Head{}, symErr
	}

	commit, revErr := p.git(ctx, repo.Root, "rev-parse", "--verify", "--quiet", "HEAD")
	switch {
	case symErr == nil && revErr == nil:
		return Head{
			Name:   strings.TrimSpace(string(name)),
			Commit: strings.TrimSpace(string(commit)),
			Type:   HeadBranch,
		}, nil
	case symErr == nil:
		return Head{Type: HeadUnborn}, nil
	case revErr == nil:
		return Head{
			Commit: strings.TrimSpace(string(commit)),
			Type:   HeadDetached,
		}, nil
	default:
		return Head{}, revErr
	}
}

// CurrentBranch picks a repository for activePath and returns its branch.
// ErrNoRepository and ErrNoBranch report the two ways a branch can be absent.
func (p *Provider) CurrentBranch(ctx context.Context, activePath string) (string, Repository, error) {
	repo, ok := p.Pick(ctx, activePath)
	if !ok {
		return "", Repository{}, errors.ErrNoRepository
	}
	head, err := p.Head(ctx, repo)
	if err != nil {
		return "", repo, errors.Join(errors.ErrNoBranch, err)
	}
	branch, ok := head.Branch()
	if !ok {
		return "", repo, errors.ErrNoBranch
	}
	return branch, repo, nil
}
