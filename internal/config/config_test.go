package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if !cfg.ShowStatusBar {
		t.Error("ShowStatusBar should be true by default")
	}
	if !cfg.UpdateTitleBarColors {
		t.Error("UpdateTitleBarColors should be true by default")
	}
	if len(cfg.Rules) != 0 {
		t.Errorf("Rules = %v, want empty", cfg.Rules)
	}
	if cfg.DefaultColors.Bg != "#444444" {
		t.Errorf("DefaultColors.Bg = %q, want %q", cfg.DefaultColors.Bg, "#444444")
	}
	if cfg.DefaultColors.Fg != "#ffffff" {
		t.Errorf("DefaultColors.Fg = %q, want %q", cfg.DefaultColors.Fg, "#ffffff")
	}
	if cfg.Debug {
		t.Error("Debug should be false by default")
	}
	if cfg.RefreshInterval != 3*time.Second {
		t.Errorf("RefreshInterval = %v, want 3s", cfg.RefreshInterval)
	}
	if cfg.StatusIcon != "⎇" {
		t.Errorf("StatusIcon = %q", cfg.StatusIcon)
	}
	if cfg.Workspace.SettingsFile != filepath.Join(".vscode", "settings.json") {
		t.Errorf("Workspace.SettingsFile = %q", cfg.Workspace.SettingsFile)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func loadYAML(t *testing.T, doc string) (*Config, error) {
	t.Helper()
	v := viper.New()
	SetDefaultsOn(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	return LoadFrom(v)
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := loadYAML(t, "")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.RefreshInterval != DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, DefaultRefreshInterval)
	}
	if cfg.DefaultColors.Bg != "#444444" || cfg.DefaultColors.Fg != "#ffffff" {
		t.Errorf("DefaultColors = %+v", cfg.DefaultColors)
	}
	if !cfg.ShowStatusBar || !cfg.UpdateTitleBarColors {
		t.Error("boolean defaults should be true")
	}
}

func TestLoadFrom_Rules(t *testing.T) {
	cfg, err := loadYAML(t, `
rules:
  - pattern: "^feature/"
    bg: "#00ff00"
  - pattern: "^release/"
    bg: "#ff9900"
    fg: "#000000"
    statusBg: "#111111"
    titleBarFg: "#222222"
default_colors:
  bg: "#101010"
`)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if len(cfg.Rules) != 2 {
		t.Fatalf("len(Rules) = %d, want 2", len(cfg.Rules))
	}
	if cfg.Rules[0].Pattern != "^feature/" || cfg.Rules[0].Bg != "#00ff00" {
		t.Errorf("Rules[0] = %+v", cfg.Rules[0])
	}
	r := cfg.Rules[1]
	if r.StatusBg != "#111111" || r.TitleBarFg != "#222222" || r.Fg != "#000000" {
		t.Errorf("Rules[1] = %+v", r)
	}
	if cfg.DefaultColors.Bg != "#101010" {
		t.Errorf("DefaultColors.Bg = %q", cfg.DefaultColors.Bg)
	}
	// Unset keys keep their defaults
	if cfg.DefaultColors.Fg != "#ffffff" {
		t.Errorf("DefaultColors.Fg = %q, want default", cfg.DefaultColors.Fg)
	}
}

func TestLoadFrom_RefreshInterval(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want time.Duration
	}{
		{"duration string", "refresh_interval: 5s", 5 * time.Second},
		{"milliseconds", "refresh_interval: 1500", 1500 * time.Millisecond},
		{"sub-second string", "refresh_interval: 750ms", 750 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadYAML(t, tt.doc)
			if err != nil {
				t.Fatalf("LoadFrom() error = %v", err)
			}
			if cfg.RefreshInterval != tt.want {
				t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, tt.want)
			}
		})
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	_, err := loadYAML(t, "refresh_interval: 10ms\nlogging:\n  level: loud\n")
	if err == nil {
		t.Fatal("LoadFrom() should reject invalid values")
	}
	var verrs ValidationErrors
	if !asValidationErrors(err, &verrs) {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("got %d validation errors, want 2: %v", len(verrs), verrs)
	}
}

func asValidationErrors(err error, target *ValidationErrors) bool {
	v, ok := err.(ValidationErrors)
	if ok {
		*target = v
	}
	return ok
}

func TestLoadFrom_DebugForcesDebugLevel(t *testing.T) {
	cfg, err := loadYAML(t, "debug: true\nlogging:\n  level: warn\n")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFrom_WorkspaceFoldersFromEnvString(t *testing.T) {
	v := viper.New()
	SetDefaultsOn(v)
	v.Set("workspace.folders", "a,b")

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if len(cfg.Workspace.Folders) != 2 || cfg.Workspace.Folders[1] != "b" {
		t.Errorf("Workspace.Folders = %v, want [a b]", cfg.Workspace.Folders)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/branchtint"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "branchtint")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/branchtint/config.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestGet(t *testing.T) {
	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.DefaultColors.Bg != "#444444" {
		t.Errorf("Get().DefaultColors.Bg = %q, want %q", cfg.DefaultColors.Bg, "#444444")
	}
}

func TestConfig_LogDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	cfg := Default()
	if got := cfg.LogDir(); got != "/xdg/branchtint" {
		t.Errorf("LogDir() = %q, want config dir", got)
	}
	cfg.Logging.Dir = "/var/log/tint"
	if got := cfg.LogDir(); got != "/var/log/tint" {
		t.Errorf("LogDir() = %q, want override", got)
	}
}

func TestConfig_WorkspaceFolders(t *testing.T) {
	cwd := filepath.FromSlash("/work/project")

	tests := []struct {
		name    string
		folders []string
		want    []string
	}{
		{"empty uses cwd", nil, []string{cwd}},
		{"relative resolved", []string{"api", "./web/"}, []string{filepath.Join(cwd, "api"), filepath.Join(cwd, "web")}},
		{"absolute kept", []string{"/srv/repo"}, []string{filepath.FromSlash("/srv/repo")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Workspace.Folders = tt.folders
			got := cfg.WorkspaceFolders(cwd)
			if len(got) != len(tt.want) {
				t.Fatalf("WorkspaceFolders() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("WorkspaceFolders()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestConfig_SettingsPath(t *testing.T) {
	cwd := filepath.FromSlash("/work/project")

	cfg := Default()
	if got, want := cfg.SettingsPath(cwd), filepath.Join(cwd, ".vscode", "settings.json"); got != want {
		t.Errorf("SettingsPath() = %q, want %q", got, want)
	}

	cfg.Workspace.Folders = []string{"/srv/first", "/srv/second"}
	if got, want := cfg.SettingsPath(cwd), filepath.Join("/srv/first", ".vscode", "settings.json"); got != want {
		t.Errorf("SettingsPath() = %q, want %q", got, want)
	}

	cfg.Workspace.SettingsFile = "/etc/editor/settings.json"
	if got := cfg.SettingsPath(cwd); got != "/etc/editor/settings.json" {
		t.Errorf("SettingsPath() = %q, want absolute override", got)
	}

	cfg.Workspace.SettingsFile = ""
	if got, want := cfg.SettingsPath(cwd), filepath.Join("/srv/first", ".vscode", "settings.json"); got != want {
		t.Errorf("SettingsPath() with empty file = %q, want %q", got, want)
	}
}
