// Package errors provides the error definitions used across branchtint.
//
// Most failures in branchtint are not fatal. A missing git binary, a folder
// that is not a repository or a detached HEAD all collapse into the
// "no branch" render state. The types here exist so that the few places
// that do report to the user (command-level errors such as copying a branch
// when none is checked out) can tell user-facing errors apart from internal
// ones, and so that logs carry repository and settings-file context.
//
// # Error Types
//
//   - GitError: a git invocation failed (carries repository and git output)
//   - SettingsError: the workspace settings file could not be read or written
//
// # Usage
//
//	err := errors.NewGitError("failed to read HEAD", cause).WithRepository(root)
//	if errors.Is(err, errors.ErrNotGitRepository) { ... }
//	if errors.IsNoBranch(err) { term.Warn("No Git branch detected.") }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exported so callers need a single errors import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

var (
	// ErrGitUnavailable indicates that no git executable could be found.
	ErrGitUnavailable = New("git is not available")
	// ErrNotGitRepository indicates that the directory is not a git repository.
	ErrNotGitRepository = New("not a git repository")
	// ErrNoRepository indicates that no repository could be selected for the workspace.
	ErrNoRepository = New("no repository found")
	// ErrNoBranch indicates that HEAD is detached or unborn.
	ErrNoBranch = New("no git branch detected")
	// ErrSettingsCorrupted indicates that the settings file is not valid JSON.
	ErrSettingsCorrupted = New("settings file is not valid JSON")
)

// GitError is a failed git invocation.
//
//	err := errors.NewGitError("failed to read HEAD", errors.ErrNotGitRepository).
//		WithRepository("/src/app")
type GitError struct {
	Message    string
	Cause      error
	Repository string
	GitOutput  string // trimmed combined output of the git command
}

func NewGitError(message string, cause error) *GitError {
	return &GitError{Message: message, Cause: cause}
}

// WithRepository records the repository git was run in.
func (e *GitError) WithRepository(path string) *GitError {
	e.Repository = path
	return e
}

// WithGitOutput records what git printed.
func (e *GitError) WithGitOutput(output string) *GitError {
	e.GitOutput = strings.TrimSpace(output)
	return e
}

func (e *GitError) Error() string {
	var b strings.Builder
	b.WriteString("git error")
	if e.Repository != "" {
		fmt.Fprintf(&b, " [repo=%s]", e.Repository)
	}
	b.WriteString(": " + e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if e.GitOutput != "" {
		b.WriteString("\ngit output: " + e.GitOutput)
	}
	return b.String()
}

func (e *GitError) Unwrap() error { return e.Cause }

// SettingsError is a failure to read or write the workspace settings file
// that holds the color customizations.
type SettingsError struct {
	Message string
	Cause   error
	Path    string
}

func NewSettingsError(message string, cause error) *SettingsError {
	return &SettingsError{Message: message, Cause: cause}
}

// WithPath records the settings file involved.
func (e *SettingsError) WithPath(path string) *SettingsError {
	e.Path = path
	return e
}

func (e *SettingsError) Error() string {
	prefix := "settings error"
	if e.Path != "" {
		prefix += " [path=" + e.Path + "]"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return prefix + ": " + e.Message
}

func (e *SettingsError) Unwrap() error { return e.Cause }

// IsNoBranch reports whether err means there is no branch to show: the
// workspace has no repository, or HEAD is detached or unborn.
func IsNoBranch(err error) bool {
	return Is(err, ErrNoBranch) || Is(err, ErrNoRepository)
}

// Wrap prefixes err with message. It returns nil for a nil err.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
