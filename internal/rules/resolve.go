package rules

// DefaultColors are used for any slot a rule leaves empty, and for every
// slot when no rule matches.
type DefaultColors struct {
	Bg string `mapstructure:"bg" yaml:"bg" json:"bg"`
	Fg string `mapstructure:"fg" yaml:"fg" json:"fg"`
}

// ResolvedColors is the concrete color set applied for one render.
type ResolvedColors struct {
	StatusBg string `json:"statusBg"`
	StatusFg string `json:"statusFg"`
	TitleBg  string `json:"titleBg"`
	TitleFg  string `json:"titleFg"`
}

// Resolve fills each slot from the rule's slot field, then the rule's
// generic field, then the defaults. A nil rule means no match.
func Resolve(rule *Rule, defaults DefaultColors) ResolvedColors {
	if rule == nil {
		return ResolvedColors{
			StatusBg: defaults.Bg,
			StatusFg: defaults.Fg,
			TitleBg:  defaults.Bg,
			TitleFg:  defaults.Fg,
		}
	}
	return ResolvedColors{
		StatusBg: firstNonEmpty(rule.StatusBg, rule.Bg, defaults.Bg),
		StatusFg: firstNonEmpty(rule.StatusFg, rule.Fg, defaults.Fg),
		TitleBg:  firstNonEmpty(rule.TitleBarBg, rule.Bg, defaults.Bg),
		TitleFg:  firstNonEmpty(rule.TitleBarFg, rule.Fg, defaults.Fg),
	}
}

// ResolveBranch matches branch against rules and resolves the result.
func ResolveBranch(branch string, rules []Rule, defaults DefaultColors) (ResolvedColors, Evaluation) {
	ev := Evaluate(branch, rules)
	if !ev.Matched {
		return Resolve(nil, defaults), ev
	}
	return Resolve(&ev.Rule, defaults), ev
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
