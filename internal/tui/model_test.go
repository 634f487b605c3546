package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/Iron-Ham/branchtint/internal/event"
	"github.com/Iron-Ham/branchtint/internal/surface"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeController struct {
	copies    int
	refreshes int
}

func (f *fakeController) CopyBranch(context.Context) Notice {
	f.copies++
	return Notice{Level: NoticeInfo, Text: "Copied branch: main"}
}

func (f *fakeController) RequestRefresh() { f.refreshes++ }

func (f *fakeController) DebugReport(context.Context) string {
	return "branchtint debug information:\n{\"branch\": \"main\"}\n"
}

func (f *fakeController) RuleReport() string {
	return "✗ NO MATCH: Using default colors\n"
}

func keyMsg(key string) tea.KeyMsg {
	if key == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends key to m and runs the returned command, if any, feeding its
// message back into the model.
func press(t *testing.T, m Model, key string) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	m = next.(Model)
	if cmd == nil {
		return m, nil
	}
	msg := cmd()
	next, _ = m.Update(msg)
	return next.(Model), msg
}

func TestModel_RenderAndStatus(t *testing.T) {
	m := NewModel(context.Background(), &fakeController{}, "/work/.vscode/settings.json")

	if !strings.Contains(m.View(), "waiting for first render") {
		t.Errorf("initial view = %q", m.View())
	}

	ev := event.NewRenderCompletedEvent("branch_active", "release/v1.0", "/work", event.TypeRepositoryChanged)
	ev.Pattern = "^release/"
	ev.StatusBg, ev.StatusFg = "#ff9900", "#000000"

	next, _ := m.Update(RenderMsg(ev))
	next, _ = next.Update(StatusMsg(surface.StatusItem{Text: "⎇ release/v1.0", Visible: true}))
	view := next.View()

	for _, want := range []string{"⎇ release/v1.0", "/work", "^release/", "#ff9900", "settings.json"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_HiddenStatus(t *testing.T) {
	m := NewModel(context.Background(), &fakeController{}, "")
	next, _ := m.Update(StatusMsg(surface.StatusItem{Visible: false}))

	if !strings.Contains(next.View(), "no git branch") {
		t.Errorf("view = %q, want no-branch placeholder", next.View())
	}
}

func TestModel_Keys(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel(context.Background(), ctrl, "")

	m, msg := press(t, m, "c")
	if ctrl.copies != 1 {
		t.Errorf("CopyBranch called %d times", ctrl.copies)
	}
	if _, ok := msg.(NoticeMsg); !ok || !strings.Contains(m.View(), "Copied branch: main") {
		t.Errorf("copy notice not shown: %T\n%s", msg, m.View())
	}

	m, _ = press(t, m, "r")
	if ctrl.refreshes != 1 || !strings.Contains(m.View(), "Refresh requested") {
		t.Errorf("refresh not requested: %d", ctrl.refreshes)
	}

	m, _ = press(t, m, "t")
	if !strings.Contains(m.View(), "NO MATCH") {
		t.Errorf("rule report not shown:\n%s", m.View())
	}

	m, _ = press(t, m, "d")
	if !strings.Contains(m.View(), "debug information") || strings.Contains(m.View(), "NO MATCH") {
		t.Errorf("debug report should replace the rule report:\n%s", m.View())
	}

	m, _ = press(t, m, "esc")
	if strings.Contains(m.View(), "debug information") {
		t.Error("esc should close the report")
	}

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_UnboundKeyIgnored(t *testing.T) {
	m := NewModel(context.Background(), &fakeController{}, "")
	_, cmd := m.Update(keyMsg("x"))
	if cmd != nil {
		t.Error("unbound key should not produce a command")
	}
}

func TestModel_NarrowWindow(t *testing.T) {
	m := NewModel(context.Background(), &fakeController{}, "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	m = next.(Model)
	m, _ = press(t, m, "d")

	view := m.View()
	if !strings.Contains(view, "branchtint debug") {
		t.Fatalf("report missing:\n%s", view)
	}
	if strings.Contains(view, "branchtint debug information:") {
		t.Errorf("report lines should be cut to the window width:\n%s", view)
	}
}

func TestSurface(t *testing.T) {
	var got []tea.Msg
	s := NewSurface(func(msg tea.Msg) { got = append(got, msg) })

	bus := event.NewBus()
	s.Forward(bus)

	s.SetStatus(surface.StatusItem{Text: "⎇ main", Visible: true})
	s.Warn("No Git branch detected.")
	bus.Publish(event.NewRenderCompletedEvent("no_branch", "", "", event.TypeTimerTick))

	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	if _, ok := got[0].(StatusMsg); !ok {
		t.Errorf("got[0] = %T, want StatusMsg", got[0])
	}
	if n, ok := got[1].(NoticeMsg); !ok || n.Level != NoticeWarn {
		t.Errorf("got[1] = %#v, want warning notice", got[1])
	}
	if _, ok := got[2].(RenderMsg); !ok {
		t.Errorf("got[2] = %T, want RenderMsg", got[2])
	}
}

func TestDefaultBindings(t *testing.T) {
	want := map[string]Command{"c": CmdCopyBranch, "r": CmdRefresh, "d": CmdDebug, "t": CmdTestRules, "q": CmdQuit}
	if got, ok := lookup(DefaultBindings(), tea.KeyMsg{Type: tea.KeyCtrlC}); !ok || got != CmdQuit {
		t.Errorf("ctrl+c = %q, %v; want quit", got, ok)
	}
	for key, cmd := range want {
		got, ok := lookup(DefaultBindings(), keyMsg(key))
		if !ok || got != cmd {
			t.Errorf("lookup(%q) = %q, %v; want %q", key, got, ok, cmd)
		}
	}
}
