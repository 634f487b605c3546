package highlighter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Iron-Ham/branchtint/internal/rules"
	"github.com/tidwall/pretty"
)

// DebugInfo is the resolved state dumped by the debug command.
type DebugInfo struct {
	Git                  string              `json:"git"`
	Repository           string              `json:"repository"`
	Branch               string              `json:"branch"`
	HeadType             string              `json:"headType"`
	HeadCommit           string              `json:"headCommit"`
	ActiveDocument       string              `json:"activeDocument,omitempty"`
	Rules                []rules.Rule        `json:"rules"`
	DefaultColors        rules.DefaultColors `json:"defaultColors"`
	ShowStatusBar        bool                `json:"showStatusBar"`
	UpdateTitleBarColors bool                `json:"updateTitleBarColors"`
	MatchedPattern       string              `json:"matchedPattern,omitempty"`
	InvalidPatterns      []string            `json:"invalidPatterns,omitempty"`
	SnapshotPresent      bool                `json:"snapshotPresent"`
}

const none = "None"

// Debug collects the current state without rendering it.
func (h *Highlighter) Debug(ctx context.Context) DebugInfo {
	cfg := h.currentConfig()

	info := DebugInfo{
		Git:                  "Not available",
		Repository:           none,
		Branch:               none,
		HeadType:             none,
		HeadCommit:           none,
		ActiveDocument:       h.ActiveDocument(),
		Rules:                cfg.Rules,
		DefaultColors:        cfg.DefaultColors,
		ShowStatusBar:        cfg.ShowStatusBar,
		UpdateTitleBarColors: cfg.UpdateTitleBarColors,
		SnapshotPresent:      h.snapshot.Present,
	}
	if info.Rules == nil {
		info.Rules = []rules.Rule{}
	}
	if h.repos.GitAvailable(ctx) {
		info.Git = "Available"
	}

	repo, ok := h.repos.Pick(ctx, info.ActiveDocument)
	if !ok {
		return info
	}
	info.Repository = repo.Root

	head, err := h.repos.Head(ctx, repo)
	if err != nil {
		return info
	}
	info.HeadType = string(head.Type)
	if head.Commit != "" {
		info.HeadCommit = head.Commit
	}
	if branch, ok := head.Branch(); ok {
		info.Branch = branch
		ev := rules.Evaluate(branch, cfg.Rules)
		if ev.Matched {
			info.MatchedPattern = ev.Rule.Pattern
		}
		info.InvalidPatterns = ev.Invalid
	}
	return info
}

// FormatDebug renders info as an indented JSON report.
func FormatDebug(info DebugInfo) string {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Sprintf("failed to encode debug information: %v\n", err)
	}
	var sb strings.Builder
	sb.WriteString("branchtint debug information:\n")
	sb.Write(pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: "  "}))
	return sb.String()
}

// RuleTest is the outcome of evaluating the rules against one branch name.
type RuleTest struct {
	Branch  string
	Matched bool
	Pattern string
	Colors  rules.ResolvedColors
}

// TestRules evaluates the configured rules against branches, or against
// rules.SampleBranches when none are given.
func (h *Highlighter) TestRules(branches []string) []RuleTest {
	cfg := h.currentConfig()
	if len(branches) == 0 {
		branches = rules.SampleBranches()
	}

	results := make([]RuleTest, 0, len(branches))
	for _, b := range branches {
		colors, ev := rules.ResolveBranch(b, cfg.Rules, cfg.DefaultColors)
		rt := RuleTest{Branch: b, Matched: ev.Matched, Colors: colors}
		if ev.Matched {
			rt.Pattern = ev.Rule.Pattern
		}
		results = append(results, rt)
	}
	return results
}

// FormatRuleTests renders results in the rule test report format.
func FormatRuleTests(results []RuleTest) string {
	var sb strings.Builder
	sb.WriteString("branchtint rule test results:\n")
	sb.WriteString("=====================================\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "\nTesting branch: \"%s\"\n", r.Branch)
		if r.Matched {
			fmt.Fprintf(&sb, "✓ MATCHED: Pattern \"%s\"\n", r.Pattern)
			fmt.Fprintf(&sb, "  Colors: status bg=%s, fg=%s; title bg=%s, fg=%s\n",
				r.Colors.StatusBg, r.Colors.StatusFg, r.Colors.TitleBg, r.Colors.TitleFg)
		} else {
			sb.WriteString("✗ NO MATCH: Using default colors\n")
		}
	}
	return sb.String()
}
