package config

import (
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/Iron-Ham/branchtint/internal/rules"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the complete branchtint configuration
type Config struct {
	// ShowStatusBar controls whether the branch status item is shown
	ShowStatusBar bool `mapstructure:"show_status_bar" yaml:"show_status_bar"`
	// UpdateTitleBarColors controls whether workbench color customizations
	// are written on a branch and restored when no branch is detected
	UpdateTitleBarColors bool `mapstructure:"update_title_bar_colors" yaml:"update_title_bar_colors"`
	// Rules are evaluated in order; the first matching pattern wins
	Rules []rules.Rule `mapstructure:"rules" yaml:"rules"`
	// DefaultColors apply when no rule matches or a rule omits a slot
	DefaultColors rules.DefaultColors `mapstructure:"default_colors" yaml:"default_colors"`
	// Debug forces debug-level logging
	Debug bool `mapstructure:"debug" yaml:"debug"`
	// RefreshInterval is the period of the fallback re-render tick (default: 3s)
	RefreshInterval time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	// StatusIcon prefixes the branch name in the status item
	StatusIcon string `mapstructure:"status_icon" yaml:"status_icon"`

	Workspace WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// WorkspaceConfig describes the editor workspace branchtint serves
type WorkspaceConfig struct {
	// Folders are the workspace roots searched for repositories.
	// Empty means the current directory.
	Folders []string `mapstructure:"folders" yaml:"folders"`
	// SettingsFile holds workbench.colorCustomizations. Relative paths are
	// resolved against the first workspace folder.
	SettingsFile string `mapstructure:"settings_file" yaml:"settings_file"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir overrides the log directory (default: the config directory)
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// DefaultRefreshInterval matches the polling period of the editor extension
// this tool stands in for.
const DefaultRefreshInterval = 3 * time.Second

// MinRefreshInterval is the smallest accepted refresh_interval.
const MinRefreshInterval = 250 * time.Millisecond

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		ShowStatusBar:        true,
		UpdateTitleBarColors: true,
		Rules:                []rules.Rule{},
		DefaultColors: rules.DefaultColors{
			Bg: "#444444",
			Fg: "#ffffff",
		},
		Debug:           false,
		RefreshInterval: DefaultRefreshInterval,
		StatusIcon:      "⎇",
		Workspace: WorkspaceConfig{
			Folders:      []string{},
			SettingsFile: filepath.Join(".vscode", "settings.json"),
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
	}
}

// SetDefaults registers default values with the global viper instance
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers default values with v
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("show_status_bar", defaults.ShowStatusBar)
	v.SetDefault("update_title_bar_colors", defaults.UpdateTitleBarColors)
	v.SetDefault("rules", defaults.Rules)
	v.SetDefault("default_colors.bg", defaults.DefaultColors.Bg)
	v.SetDefault("default_colors.fg", defaults.DefaultColors.Fg)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("refresh_interval", defaults.RefreshInterval.String())
	v.SetDefault("status_icon", defaults.StatusIcon)

	v.SetDefault("workspace.folders", defaults.Workspace.Folders)
	v.SetDefault("workspace.settings_file", defaults.Workspace.SettingsFile)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
}

// decodeHook lets refresh_interval be written as a duration string ("3s")
// or as integer milliseconds (3000).
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		millisecondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func millisecondsToDurationHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		durationType := reflect.TypeOf(time.Duration(0))
		if to != durationType || from == durationType {
			return data, nil
		}
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Millisecond, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Millisecond)), nil
		}
		return data, nil
	}
}

// Load reads the configuration from the global viper instance and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v and validates it
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	if cfg.Debug {
		cfg.Logging.Level = "debug"
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "branchtint")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".branchtint"
	}
	return filepath.Join(home, ".config", "branchtint")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogDir returns the directory log files are written to
func (c *Config) LogDir() string {
	if c.Logging.Dir != "" {
		return c.Logging.Dir
	}
	return ConfigDir()
}

// WorkspaceFolders returns the configured folders, or cwd when none are set.
// Relative folders are resolved against cwd.
func (c *Config) WorkspaceFolders(cwd string) []string {
	if len(c.Workspace.Folders) == 0 {
		return []string{cwd}
	}
	folders := make([]string, 0, len(c.Workspace.Folders))
	for _, f := range c.Workspace.Folders {
		if !filepath.IsAbs(f) {
			f = filepath.Join(cwd, f)
		}
		folders = append(folders, filepath.Clean(f))
	}
	return folders
}

// SettingsPath returns the absolute path of the workspace settings file.
func (c *Config) SettingsPath(cwd string) string {
	path := c.Workspace.SettingsFile
	if path == "" {
		path = Default().Workspace.SettingsFile
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.WorkspaceFolders(cwd)[0], path)
}
