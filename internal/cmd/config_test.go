package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/branchtint/internal/config"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func TestParseSetting(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"show_status_bar", "false", false, false},
		{"show_status_bar", "no", nil, true},
		{"default_colors.bg", "#1e90ff", "#1e90ff", false},
		{"default_colors.fg", "white", nil, true},
		{"refresh_interval", "1500ms", "1.5s", false},
		{"refresh_interval", "100ms", nil, true},
		{"refresh_interval", "soon", nil, true},
		{"logging.level", "WARN", "warn", false},
		{"logging.level", "trace", nil, true},
		{"status_icon", "*", "*", false},
		{"rules", "[]", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := parseSetting(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSetting() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseSetting() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestMarshalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RefreshInterval = 1500 * time.Millisecond

	data, err := marshalConfig(cfg)
	if err != nil {
		t.Fatalf("marshalConfig() error = %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "refresh_interval: 1.5s") {
		t.Errorf("refresh_interval should be a duration string:\n%s", out)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["show_status_bar"] != true {
		t.Errorf("show_status_bar = %v, want true", decoded["show_status_bar"])
	}
}

func TestDefaultConfigContent(t *testing.T) {
	v := viper.New()
	config.SetDefaultsOn(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(defaultConfigContent)); err != nil {
		t.Fatalf("default config is not valid YAML: %v", err)
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
	if len(cfg.Rules) != 3 {
		t.Errorf("Rules = %d, want 3", len(cfg.Rules))
	}
	if warnings := cfg.Lint(); len(warnings) != 0 {
		t.Errorf("default config has lint warnings: %v", warnings)
	}
	if cfg.RefreshInterval != config.DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, config.DefaultRefreshInterval)
	}
}
