// Package tui implements the interactive watch view: the live status item,
// the resolved colors and key bindings for the branchtint commands.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iron-Ham/branchtint/internal/event"
	"github.com/Iron-Ham/branchtint/internal/surface"
	"github.com/Iron-Ham/branchtint/internal/tui/styles"
	"github.com/Iron-Ham/branchtint/internal/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller performs the commands the view exposes. Methods may block;
// the view calls them from tea.Cmd goroutines.
type Controller interface {
	CopyBranch(ctx context.Context) Notice
	RequestRefresh()
	DebugReport(ctx context.Context) string
	RuleReport() string
}

// NoticeLevel is the severity of a Notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
)

// Notice is a one-line message shown below the state panel.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// RenderMsg delivers a completed render to the view.
type RenderMsg event.RenderCompletedEvent

// StatusMsg delivers a status item update to the view.
type StatusMsg surface.StatusItem

// NoticeMsg delivers a Notice to the view.
type NoticeMsg Notice

type reportMsg struct {
	title string
	body  string
}

// Model is the bubbletea model of the watch view.
type Model struct {
	ctx        context.Context
	controller Controller
	bindings   []KeyBinding

	settingsFile string
	width        int

	render   event.RenderCompletedEvent
	status   surface.StatusItem
	rendered bool
	notice   Notice
	report   reportMsg
}

// NewModel creates the watch view.
func NewModel(ctx context.Context, controller Controller, settingsFile string) Model {
	return Model{
		ctx:          ctx,
		controller:   controller,
		bindings:     DefaultBindings(),
		settingsFile: settingsFile,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, ok := lookup(m.bindings, msg)
		if !ok {
			return m, nil
		}
		return m.execute(cmd)

	case RenderMsg:
		m.render, m.rendered = event.RenderCompletedEvent(msg), true

	case StatusMsg:
		m.status = surface.StatusItem(msg)

	case NoticeMsg:
		m.notice = Notice(msg)

	case reportMsg:
		m.report = msg

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) execute(cmd Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case CmdQuit:
		return m, tea.Quit

	case CmdCopyBranch:
		ctx, c := m.ctx, m.controller
		return m, func() tea.Msg { return NoticeMsg(c.CopyBranch(ctx)) }

	case CmdRefresh:
		m.controller.RequestRefresh()
		m.notice = Notice{Level: NoticeInfo, Text: "Refresh requested"}
		return m, nil

	case CmdDebug:
		ctx, c := m.ctx, m.controller
		return m, func() tea.Msg { return reportMsg{title: "Debug", body: c.DebugReport(ctx)} }

	case CmdTestRules:
		c := m.controller
		return m, func() tea.Msg { return reportMsg{title: "Rule test", body: c.RuleReport()} }

	case CmdDismiss:
		m.report = reportMsg{}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	// The state box keeps its border; everything else is cut to the window.
	fit := func(s string) string { return util.FitWidth(s, m.width) }
	sections := []string{fit(m.renderHeader()), m.renderState()}

	if m.notice.Text != "" {
		style := styles.Secondary
		if m.notice.Level == NoticeWarn {
			style = styles.Warning
		}
		sections = append(sections, fit(style.Render(m.notice.Text)))
	}
	if m.report.body != "" {
		sections = append(sections,
			styles.Primary.Render(m.report.title),
			fit(strings.TrimRight(m.report.body, "\n")))
	}
	sections = append(sections, fit(m.renderHelp()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderHeader() string {
	title := styles.Title.MarginRight(2).Render("branchtint")
	status := surface.RenderStatus(m.status)
	if status == "" {
		status = styles.Muted.Render("no git branch")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, status)
}

func (m Model) renderState() string {
	if !m.rendered {
		return styles.Box.Render(styles.Muted.Render("waiting for first render..."))
	}

	row := func(label, value string) string {
		if value == "" {
			value = styles.Muted.Render("-")
		}
		return styles.Label.Render(label) + value
	}

	rule := m.render.Pattern
	if rule == "" && m.render.State == "branch_active" {
		rule = styles.Muted.Render("(default colors)")
	}

	rows := []string{
		row("Repository", m.render.Repository),
		row("Branch", m.render.Branch),
		row("Rule", rule),
		row("Status", styles.ColorSwatch(m.render.StatusBg)+"  "+styles.ColorSwatch(m.render.StatusFg)),
		row("Title bar", styles.ColorSwatch(m.render.TitleBg)+"  "+styles.ColorSwatch(m.render.TitleFg)),
		row("Settings", m.settingsFile),
		row("Updated", fmt.Sprintf("%s (%s)", m.render.Timestamp().Format("15:04:05"), m.render.Trigger)),
	}
	return styles.Box.Render(strings.Join(rows, "\n"))
}

func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.bindings {
		h := b.Help()
		if h.Desc == "" {
			continue
		}
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.Muted.Render(h.Desc))
	}
	return strings.Join(parts, styles.Muted.Render(" • "))
}
