package cmd

import (
	"fmt"

	"github.com/Iron-Ham/branchtint/internal/errors"
	"github.com/Iron-Ham/branchtint/internal/surface"
	"github.com/spf13/cobra"
)

var copyBranchCmd = &cobra.Command{
	Use:   surface.CopyBranchCommand,
	Short: "Copy the current branch name to the clipboard",
	Long: `Copy the current git branch name to the system clipboard.

The repository is chosen from --active when given, otherwise the first
repository in the workspace. Nothing is copied when HEAD is detached or
no repository is found.`,
	Args: cobra.NoArgs,
	RunE: runCopyBranch,
}

func init() {
	rootCmd.AddCommand(copyBranchCmd)
}

func runCopyBranch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	term := surface.NewTerminal(cmd.OutOrStdout())
	branch, err := a.copyBranch(cmd.Context())
	switch {
	case errors.IsNoBranch(err):
		term.Warn(noBranchMessage)
		return nil
	case err != nil:
		return errors.Wrap(err, "failed to copy branch")
	}
	term.Info(fmt.Sprintf(copiedMessage, branch))
	return nil
}
