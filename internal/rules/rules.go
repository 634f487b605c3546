package rules

import (
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

// Rule binds a branch-name pattern to colors. Empty color fields are absent.
type Rule struct {
	Pattern    string `mapstructure:"pattern" yaml:"pattern" json:"pattern"`
	Bg         string `mapstructure:"bg" yaml:"bg,omitempty" json:"bg,omitempty"`
	Fg         string `mapstructure:"fg" yaml:"fg,omitempty" json:"fg,omitempty"`
	StatusBg   string `mapstructure:"statusBg" yaml:"statusBg,omitempty" json:"statusBg,omitempty"`
	StatusFg   string `mapstructure:"statusFg" yaml:"statusFg,omitempty" json:"statusFg,omitempty"`
	TitleBarBg string `mapstructure:"titleBarBg" yaml:"titleBarBg,omitempty" json:"titleBarBg,omitempty"`
	TitleBarFg string `mapstructure:"titleBarFg" yaml:"titleBarFg,omitempty" json:"titleBarFg,omitempty"`
}

// Evaluation is the detailed outcome of matching one branch.
type Evaluation struct {
	Rule    Rule
	Index   int // Index of the matched rule, -1 when nothing matched
	Matched bool
	Invalid []string // Patterns skipped because they do not compile
}

// MatchTimeout bounds a single pattern match. Patterns use backtracking
// (lookaheads, backreferences), so a pathological pattern gives up and
// counts as not matching.
const MatchTimeout = 100 * time.Millisecond

// compiled caches patterns by source. Compilation is a pure function of the
// source string, so caching never changes a match result.
var compiled sync.Map // string -> *regexp2.Regexp or error

// compile parses pattern with ECMAScript (JavaScript RegExp) semantics.
func compile(pattern string) (*regexp2.Regexp, error) {
	if v, ok := compiled.Load(pattern); ok {
		switch c := v.(type) {
		case *regexp2.Regexp:
			return c, nil
		case error:
			return nil, c
		}
	}

	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		compiled.Store(pattern, err)
		return nil, err
	}
	re.MatchTimeout = MatchTimeout
	compiled.Store(pattern, re)
	return re, nil
}

// ValidPattern reports whether pattern compiles.
func ValidPattern(pattern string) error {
	_, err := compile(pattern)
	return err
}

// Match returns the first rule whose pattern matches branch.
func Match(branch string, rules []Rule) (Rule, bool) {
	ev := Evaluate(branch, rules)
	return ev.Rule, ev.Matched
}

// Evaluate walks rules in order and stops at the first match. Invalid
// patterns met before the match are recorded and skipped. A match that
// exceeds MatchTimeout is treated as no match.
func Evaluate(branch string, rules []Rule) Evaluation {
	ev := Evaluation{Index: -1}
	for i, r := range rules {
		re, err := compile(r.Pattern)
		if err != nil {
			ev.Invalid = append(ev.Invalid, r.Pattern)
			continue
		}
		if ok, err := re.MatchString(branch); err == nil && ok {
			ev.Rule = r
			ev.Index = i
			ev.Matched = true
			return ev
		}
	}
	return ev
}
