package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/branchtint/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify branchtint configuration",
	Long: `View or modify branchtint configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Keys use dot notation, e.g.:
  branchtint config set default_colors.bg "#223344"
  branchtint config set refresh_interval 5s
  branchtint config set update_title_bar_colors false

Valid keys:
  show_status_bar          - Show the branch status item (true/false)
  update_title_bar_colors  - Write status and title bar colors (true/false)
  default_colors.bg        - Background when no rule matches (hex color)
  default_colors.fg        - Foreground when no rule matches (hex color)
  debug                    - Force debug logging (true/false)
  refresh_interval         - Fallback re-render period (e.g. 3s, 500ms)
  status_icon              - Text shown before the branch name
  workspace.settings_file  - Settings file holding the color customizations
  logging.level            - Log level: debug, info, warn, error
  logging.dir              - Log directory

Rules are a list and are edited in the config file directly.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/branchtint/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	data, err := marshalConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, _ = out.Write(data)

	if warnings := cfg.Lint(); len(warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Warnings:")
		for _, w := range warnings {
			fmt.Fprintf(out, "  - %s\n", w.Error())
		}
	}
	return nil
}

// marshalConfig encodes cfg as YAML with refresh_interval as a duration
// string rather than nanoseconds.
func marshalConfig(cfg *config.Config) ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "refresh_interval" {
			node.Content[i+1].SetString(cfg.RefreshInterval.String())
		}
	}
	return yaml.Marshal(&node)
}

// settableKeys maps config set keys to their value type.
var settableKeys = map[string]string{
	"show_status_bar":         "bool",
	"update_title_bar_colors": "bool",
	"default_colors.bg":       "color",
	"default_colors.fg":       "color",
	"debug":                   "bool",
	"refresh_interval":        "duration",
	"status_icon":             "string",
	"workspace.settings_file": "string",
	"logging.level":           "level",
	"logging.dir":             "string",
}

// parseSetting converts value to the type expected for key.
func parseSetting(key, value string) (any, error) {
	keyType, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'branchtint config set --help' to see valid keys", key)
	}

	switch keyType {
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "color":
		if !config.IsHexColor(value) {
			return nil, fmt.Errorf("invalid value for %s: expected a hex color like #1e90ff", key)
		}
		return value, nil
	case "duration":
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected a duration like 3s", key)
		}
		if d < config.MinRefreshInterval {
			return nil, fmt.Errorf("invalid value for %s: must be at least %s", key, config.MinRefreshInterval)
		}
		return d.String(), nil
	case "level":
		level := strings.ToLower(value)
		if !slices.Contains(config.ValidLogLevels(), level) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidLogLevels(), ", "))
		}
		return level, nil
	}
	return value, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	key := args[0]

	typedValue, err := parseSetting(key, args[1])
	if err != nil {
		return err
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

// defaultConfigContent is written by config init.
const defaultConfigContent = `# branchtint configuration
# See: https://github.com/Iron-Ham/branchtint

# Show the current branch in the status item
show_status_bar: true

# Write status bar and title bar colors to the workspace settings file
update_title_bar_colors: true

# Rules are tried in order; the first pattern (a regular expression)
# matching the branch name wins. bg/fg apply to both bars and can be
# overridden per bar with statusBg, statusFg, titleBarBg and titleBarFg.
rules:
  - pattern: "^(main|master)$"
    bg: "#b22222"
    fg: "#ffffff"
  - pattern: "^release/"
    bg: "#ff9900"
    fg: "#000000"
  - pattern: "^feature/"
    bg: "#2e8b57"
    fg: "#ffffff"

# Colors used when no rule matches or a rule leaves a color out
default_colors:
  bg: "#444444"
  fg: "#ffffff"

# Force debug logging
debug: false

# Fallback re-render period for changes the file watchers miss
refresh_interval: 3s

# Text shown before the branch name
status_icon: "⎇"

workspace:
  # Folders searched for repositories (default: current directory)
  folders: []
  # Settings file holding workbench.colorCustomizations,
  # relative to the first workspace folder
  settings_file: .vscode/settings.json

logging:
  # Log level: debug, info, warn, error
  level: info
  # Log directory (default: the config directory)
  dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'branchtint config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize branchtint's rules and colors.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. ./%s (current directory)\n", LocalConfigFile)
	fmt.Fprintf(out, "  2. %s\n", configFile)
	fmt.Fprintf(out, "  3. $HOME/.config/branchtint/config.yaml\n")
	fmt.Fprintln(out, "\nEnvironment variables: BRANCHTINT_* (e.g., BRANCHTINT_DEFAULT_COLORS_BG)")

	return nil
}
