package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/branchtint/internal/rules"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "refresh_interval")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for values that would stop branchtint from
// running. Rule patterns and color values are deliberately not checked
// here: a bad rule only disables itself. See Lint for those.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.RefreshInterval < MinRefreshInterval {
		errors = append(errors, ValidationError{
			Field:   "refresh_interval",
			Value:   c.RefreshInterval,
			Message: fmt.Sprintf("must be at least %s", MinRefreshInterval),
		})
	}

	if c.DefaultColors.Bg == "" {
		errors = append(errors, ValidationError{
			Field:   "default_colors.bg",
			Value:   c.DefaultColors.Bg,
			Message: "must not be empty",
		})
	}
	if c.DefaultColors.Fg == "" {
		errors = append(errors, ValidationError{
			Field:   "default_colors.fg",
			Value:   c.DefaultColors.Fg,
			Message: "must not be empty",
		})
	}

	level := strings.ToLower(c.Logging.Level)
	if level != "" && !slices.Contains(ValidLogLevels(), level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// Lint reports rule problems that are tolerated at render time: patterns
// that do not compile and colors that are not hex (#RGB, #RRGGBB or
// #RRGGBBAA). The editor rejects non-hex colors, so they usually indicate
// a typo.
func (c *Config) Lint() []ValidationError {
	var warnings []ValidationError

	for i, r := range c.Rules {
		prefix := fmt.Sprintf("rules[%d]", i)
		if err := rules.ValidPattern(r.Pattern); err != nil {
			warnings = append(warnings, ValidationError{
				Field:   prefix + ".pattern",
				Value:   r.Pattern,
				Message: "invalid regular expression, rule will never match",
			})
		}
		for field, value := range map[string]string{
			"bg":         r.Bg,
			"fg":         r.Fg,
			"statusBg":   r.StatusBg,
			"statusFg":   r.StatusFg,
			"titleBarBg": r.TitleBarBg,
			"titleBarFg": r.TitleBarFg,
		} {
			if value != "" && !IsHexColor(value) {
				warnings = append(warnings, ValidationError{
					Field:   prefix + "." + field,
					Value:   value,
					Message: "not a hex color",
				})
			}
		}
	}

	for field, value := range map[string]string{
		"default_colors.bg": c.DefaultColors.Bg,
		"default_colors.fg": c.DefaultColors.Fg,
	} {
		if value != "" && !IsHexColor(value) {
			warnings = append(warnings, ValidationError{
				Field:   field,
				Value:   value,
				Message: "not a hex color",
			})
		}
	}

	slices.SortFunc(warnings, func(a, b ValidationError) int {
		return strings.Compare(a.Field, b.Field)
	})
	return warnings
}

// IsHexColor reports whether s is a #RGB, #RRGGBB or #RRGGBBAA color.
func IsHexColor(s string) bool {
	switch len(s) {
	case 4, 7:
	case 9:
		// colorful has no alpha channel
		s = s[:7] + strings.ToLower(s[7:])
		if strings.Trim(s[7:], "0123456789abcdef") != "" {
			return false
		}
		s = s[:7]
	default:
		return false
	}
	if strings.Trim(s[1:], "0123456789abcdefABCDEF") != "" {
		return false
	}
	_, err := colorful.Hex(s)
	return err == nil
}
