package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Print the resolved branch and color state",
	Long: `Print what branchtint sees: git availability, the selected repository,
its HEAD, the configured rules and defaults, and any rule patterns or
colors that will be ignored.`,
	Args: cobra.NoArgs,
	RunE: runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	report := a.DebugReport(cmd.Context())
	a.logger.Info("debug report", "report", report)
	_, _ = fmt.Fprint(cmd.OutOrStdout(), report)
	return nil
}
