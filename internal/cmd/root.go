package cmd

import (
	"os"
	"strings"

	"github.com/Iron-Ham/branchtint/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LocalConfigFile is looked up in the working directory before the user
// config directory.
const LocalConfigFile = ".branchtint.yaml"

var rootCmd = &cobra.Command{
	Use:   "branchtint",
	Short: "Color your editor by git branch",
	Long: `branchtint shows the current git branch in a colored status line and
tints the editor's status bar and title bar according to ordered regex
rules, so you always know which branch you are working on.

Colors are written to the workspace settings file
(.vscode/settings.json, key workbench.colorCustomizations) and restored
when no branch is checked out.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./.branchtint.yaml or $HOME/.config/branchtint/config.yaml)")
	rootCmd.PersistentFlags().StringSliceP("workspace", "w", nil, "workspace folder (repeatable, default is the current directory)")
	rootCmd.PersistentFlags().String("active", "", "path of the active document, selects its repository")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func initConfig() {
	// Start from a clean slate so repeated executions (tests, config
	// reloads) never see stale overrides.
	viper.Reset()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("workspace.folders", flags.Lookup("workspace"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))

	if cfgFile, _ := flags.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(LocalConfigFile); err == nil {
		viper.SetConfigFile(LocalConfigFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/branchtint")
	}

	viper.SetEnvPrefix("BRANCHTINT")
	// Replace dots with underscores for nested keys in env vars
	// e.g., BRANCHTINT_DEFAULT_COLORS_BG for default_colors.bg
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// activeDocument returns the --active flag as an absolute path.
func activeDocument(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("active")
	if path == "" {
		return ""
	}
	return absPath(path)
}
