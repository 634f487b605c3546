package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestGitError(t *testing.T) {
	err := NewGitError("failed to read HEAD", ErrNotGitRepository).
		WithRepository("/src/app").
		WithGitOutput("fatal: not a git repository\n")

	want := "git error [repo=/src/app]: failed to read HEAD: not a git repository\ngit output: fatal: not a git repository"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrNotGitRepository) {
		t.Error("GitError should unwrap to its cause")
	}

	bare := NewGitError("git executable not found", nil)
	if got := bare.Error(); got != "git error: git executable not found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSettingsError(t *testing.T) {
	err := NewSettingsError("cannot merge colors", ErrSettingsCorrupted).WithPath(".vscode/settings.json")

	if !strings.HasPrefix(err.Error(), "settings error [path=.vscode/settings.json]: cannot merge colors") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !Is(err, ErrSettingsCorrupted) {
		t.Error("SettingsError should unwrap to ErrSettingsCorrupted")
	}

	var settingsErr *SettingsError
	if !As(fmt.Errorf("render: %w", err), &settingsErr) {
		t.Fatal("As should find SettingsError through wrapping")
	}
	if settingsErr.Path != ".vscode/settings.json" {
		t.Errorf("Path = %q", settingsErr.Path)
	}
}

func TestIsNoBranch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no branch", ErrNoBranch, true},
		{"wrapped no repository", Wrap(ErrNoRepository, "copy branch"), true},
		{"joined with git failure", Join(ErrNoBranch, NewGitError("symbolic-ref failed", nil)), true},
		{"git unavailable", NewGitError("git executable not found", ErrGitUnavailable), false},
		{"settings", NewSettingsError("write failed", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNoBranch(tt.err); got != tt.want {
				t.Errorf("IsNoBranch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	err := Wrap(ErrNoBranch, "copy branch")
	if err.Error() != "copy branch: no git branch detected" {
		t.Errorf("Wrap() = %q", err.Error())
	}
	if !Is(err, ErrNoBranch) {
		t.Error("Wrap should keep the cause reachable")
	}
}
