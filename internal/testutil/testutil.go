// Package testutil provides testing utilities for branchtint tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// SetupTestRepo creates a temporary git repository with one commit on
// branch main. Returns the path to the repository. The repository is
// automatically cleaned up when the test completes.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	dir := SetupEmptyRepo(t)

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("# Test Repository\n"), 0644); err != nil {
		t.Fatalf("failed to create README: %v", err)
	}
	RunGit(t, dir, "add", ".")
	RunGit(t, dir, "commit", "-m", "Initial commit")

	return dir
}

// SetupEmptyRepo creates a temporary git repository without commits. Its
// HEAD is unborn and points at main.
func SetupEmptyRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	RunGit(t, dir, "init")
	// Independent of init.defaultBranch on the test machine
	RunGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	RunGit(t, dir, "config", "user.email", "test@branchtint.dev")
	RunGit(t, dir, "config", "user.name", "Branchtint Test")
	RunGit(t, dir, "config", "commit.gpgsign", "false")

	return dir
}

// CommitFile creates or updates a file and commits it.
func CommitFile(t *testing.T, repoDir, path, content, message string) {
	t.Helper()

	fullPath := filepath.Join(repoDir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	RunGit(t, repoDir, "add", path)
	RunGit(t, repoDir, "commit", "-m", message)
}

// CheckoutNewBranch creates branch and switches to it.
func CheckoutNewBranch(t *testing.T, repoDir, branch string) {
	t.Helper()
	RunGit(t, repoDir, "checkout", "-q", "-b", branch)
}

// CheckoutBranch switches to an existing branch.
func CheckoutBranch(t *testing.T, repoDir, branch string) {
	t.Helper()
	RunGit(t, repoDir, "checkout", "-q", branch)
}

// DetachHead checks out the current commit directly.
func DetachHead(t *testing.T, repoDir string) {
	t.Helper()
	RunGit(t, repoDir, "checkout", "-q", "--detach")
}

// HeadCommit returns the full hash of HEAD.
func HeadCommit(t *testing.T, repoDir string) string {
	t.Helper()
	return RunGit(t, repoDir, "rev-parse", "HEAD")
}

// ResolvedPath returns path with symlinks resolved, matching what git
// reports for --show-toplevel (t.TempDir lives under a symlink on macOS).
func ResolvedPath(t *testing.T, path string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve %s: %v", path, err)
	}
	return resolved
}

// SkipIfNoGit skips the test if git is not installed.
func SkipIfNoGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH, skipping test")
	}
}

// RunGit runs a git command in dir and returns its trimmed output. The
// test fails if git exits non-zero.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Branchtint Test",
		"GIT_AUTHOR_EMAIL=test@branchtint.dev",
		"GIT_COMMITTER_NAME=Branchtint Test",
		"GIT_COMMITTER_EMAIL=test@branchtint.dev",
		"GIT_CONFIG_NOSYSTEM=1",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}
