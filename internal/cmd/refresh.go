package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Iron-Ham/branchtint/internal/event"
	"github.com/Iron-Ham/branchtint/internal/highlighter"
	"github.com/Iron-Ham/branchtint/internal/surface"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Render the current branch once",
	Long: `Render the current branch once and exit.

Prints the status item and, when update_title_bar_colors is enabled,
writes the resolved colors to the workspace settings file. When no branch
is checked out the color customizations are restored to their state at
the start of this run. Each refresh is its own run, so colors written by
an earlier refresh are kept: use "branchtint watch" when colors must be
removed again after leaving a branch.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

var refreshJSON bool

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().BoolVar(&refreshJSON, "json", false, "print the render result as JSON")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	term := surface.NewTerminal(out)

	opts := appOptions{status: term}
	if refreshJSON {
		opts = appOptions{}
	}
	a, err := newApp(cmd.Context(), cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.hl.Render(cmd.Context(), event.TypeRefreshRequested)

	if refreshJSON {
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		_, _ = out.Write(pretty.Pretty(data))
		return nil
	}

	cfg := a.settings()
	switch {
	case result.State == highlighter.NoBranch:
		term.Warn(noBranchMessage)
	case cfg.UpdateTitleBarColors:
		term.Info(fmt.Sprintf("Colors written to %s", a.store.Path()))
	}
	return nil
}
