package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Command identifies an action of the watch view.
type Command string

const (
	CmdCopyBranch Command = "copy-branch"
	CmdRefresh    Command = "refresh"
	CmdDebug      Command = "debug"
	CmdTestRules  Command = "test-rules"
	CmdDismiss    Command = "dismiss"
	CmdQuit       Command = "quit"
)

// KeyBinding maps keys to a Command.
type KeyBinding struct {
	key.Binding
	Command Command
}

func bind(cmd Command, keys []string, help string) KeyBinding {
	opts := []key.BindingOpt{key.WithKeys(keys...)}
	if help != "" {
		opts = append(opts, key.WithHelp(keys[0], help))
	}
	return KeyBinding{Binding: key.NewBinding(opts...), Command: cmd}
}

// DefaultBindings returns the key bindings of the watch view in help order.
func DefaultBindings() []KeyBinding {
	return []KeyBinding{
		bind(CmdCopyBranch, []string{"c"}, "copy branch"),
		bind(CmdRefresh, []string{"r"}, "refresh"),
		bind(CmdDebug, []string{"d"}, "debug"),
		bind(CmdTestRules, []string{"t"}, "test rules"),
		bind(CmdDismiss, []string{"esc"}, "close report"),
		bind(CmdQuit, []string{"q", "ctrl+c"}, "quit"),
	}
}

// lookup returns the command bound to msg.
func lookup(bindings []KeyBinding, msg tea.KeyMsg) (Command, bool) {
	for _, b := range bindings {
		if key.Matches(msg, b.Binding) {
			return b.Command, true
		}
	}
	return "", false
}
