package cmd

import (
	"fmt"

	"github.com/Iron-Ham/branchtint/internal/highlighter"
	"github.com/spf13/cobra"
)

var testRulesCmd = &cobra.Command{
	Use:   "test-rules [branch...]",
	Short: "Show which rule matches sample branch names",
	Long: `Evaluate the configured rules against branch names and print the
pattern and colors each one resolves to.

Without arguments a fixed list of common branch names is used:
main, master, release/v1.0, hotfix/bug-123, feature/new-feature,
develop and other-branch.

Examples:
  branchtint test-rules
  branchtint test-rules feature/login JIRA-42`,
	RunE: runTestRules,
}

func init() {
	rootCmd.AddCommand(testRulesCmd)
}

func runTestRules(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	report := highlighter.FormatRuleTests(a.hl.TestRules(args))
	_, _ = fmt.Fprint(cmd.OutOrStdout(), report)
	return nil
}
