package gitrepo

import (
	"context"
	"os"
	"os/exec"
)

// CommandExecutor abstracts command execution for testability.
// This allows tests to fake git without executing it.
type CommandExecutor interface {
	// Run executes a command in dir and returns its standard output.
	// A non-zero exit is reported as an *exec.ExitError carrying stderr.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// CLICommandExecutor executes commands using os/exec.
type CLICommandExecutor struct{}

// NewCLICommandExecutor creates a new CLI command executor.
func NewCLICommandExecutor() *CLICommandExecutor {
	return &CLICommandExecutor{}
}

// Run executes a command and returns its standard output.
func (e *CLICommandExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	// Read-only queries must not contend for index.lock with the user's git.
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0")
	return cmd.Output()
}
