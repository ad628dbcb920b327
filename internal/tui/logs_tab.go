package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// logsTabModel displays log lines captured by a LogHook.
type logsTabModel struct {
	hook       *LogHook
	viewport   viewport.Model
	lines      []string
	maxLines   int
	autoScroll bool
	width      int
	height     int
	ready      bool
}

type logLineMsg string

func newLogsTabModel(hook *LogHook) logsTabModel {
	return logsTabModel{
		hook:       hook,
		maxLines:   2000,
		autoScroll: true,
	}
}

func (m logsTabModel) Init() tea.Cmd {
	if m.hook == nil {
		return nil
	}
	return m.waitForLog
}

func (m logsTabModel) waitForLog() tea.Msg {
	if m.hook == nil {
		return nil
	}
	line, ok := <-m.hook.Chan()
	if !ok {
		return nil
	}
	return logLineMsg(line)
}

func (m logsTabModel) Update(msg tea.Msg) (logsTabModel, tea.Cmd) {
	switch msg := msg.(type) {
	case localeChangedMsg:
		m.refresh()
		return m, nil
	case logLineMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > m.maxLines {
			m.lines = m.lines[len(m.lines)-m.maxLines:]
		}
		m.refresh()
		return m, m.waitForLog
	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			m.autoScroll = !m.autoScroll
			m.refresh()
			return m, nil
		case "c":
			m.lines = nil
			m.refresh()
			return m, nil
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			m.autoScroll = m.viewport.AtBottom()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *logsTabModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderLogs())
	if m.autoScroll {
		m.viewport.GotoBottom()
	}
}

func (m *logsTabModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.refresh()
}

func (m logsTabModel) View() string {
	if !m.ready {
		return T("loading")
	}
	return m.viewport.View()
}

func (m logsTabModel) renderLogs() string {
	var sb strings.Builder

	scroll := successStyle.Render(T("logs_auto"))
	if !m.autoScroll {
		scroll = warningStyle.Render(T("logs_paused"))
	}
	sb.WriteString(titleStyle.Render(fmt.Sprintf(" %s  %s  %s: %d", T("logs_title"), scroll, T("logs_lines"), len(m.lines))))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(T("logs_help")))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", max(m.width, 0)))
	sb.WriteString("\n")

	if len(m.lines) == 0 {
		sb.WriteString(subtitleStyle.Render(T("logs_waiting")))
		return sb.String()
	}
	for _, line := range m.lines {
		sb.WriteString(styleLogLine(line))
		sb.WriteString("\n")
	}
	return sb.String()
}

// styleLogLine colors a line by the level tag LogFormatter writes.
func styleLogLine(line string) string {
	switch {
	case strings.Contains(line, "[error") || strings.Contains(line, "[fatal") || strings.Contains(line, "[panic"):
		return logErrorStyle.Render(line)
	case strings.Contains(line, "[warn"):
		return logWarnStyle.Render(line)
	case strings.Contains(line, "[debug"):
		return logDebugStyle.Render(line)
	case strings.Contains(line, "[info"):
		return logInfoStyle.Render(line)
	default:
		return line
	}
}
