package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simplaapliko/ghauthz/internal/fetch"
	log "github.com/sirupsen/logrus"
)

// noticeDuration is how long a notice stays on screen.
const noticeDuration = 3500 * time.Millisecond

// authzScreen is the fetch.View of the Authorizations tab. It is mutated only from
// closures the flow posts on the app queue, which run inside Update.
type authzScreen struct {
	loading     bool
	progressMsg string
	cancel      func()

	text      string
	hasText   bool
	notice    string
	noticeSeq int
}

func (s *authzScreen) ShowProgress(message string, cancel func()) {
	s.loading = true
	s.progressMsg = message
	s.cancel = cancel
}

func (s *authzScreen) DismissProgress() {
	s.loading = false
	s.cancel = nil
}

func (s *authzScreen) SetText(text string) {
	s.text = text
	s.hasText = true
}

func (s *authzScreen) ShowNotice(message string) {
	s.notice = message
	s.noticeSeq++
}

// authzTabModel owns one fetch.Flow at a time and renders its screen.
type authzTabModel struct {
	deps     *appDeps
	screen   *authzScreen
	flow     *fetch.Flow
	spinner  spinner.Model
	viewport viewport.Model
	status   string

	width  int
	height int
	ready  bool

	shownNoticeSeq int
}

type startFetchMsg struct{}

type noticeExpiredMsg struct{ seq int }

func newAuthzTabModel(deps *appDeps) authzTabModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return authzTabModel{
		deps:    deps,
		screen:  &authzScreen{},
		spinner: sp,
	}
}

func (m authzTabModel) Init() tea.Cmd {
	return func() tea.Msg { return startFetchMsg{} }
}

func (m authzTabModel) Update(msg tea.Msg) (authzTabModel, tea.Cmd) {
	switch msg := msg.(type) {
	case localeChangedMsg:
		m.refresh()
		return m, nil

	case startFetchMsg:
		return m.startFlow()

	case flowUpdatedMsg:
		m.refresh()
		return m, m.noticeTimer()

	case noticeExpiredMsg:
		if msg.seq == m.screen.noticeSeq {
			m.screen.notice = ""
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.screen.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m authzTabModel) handleKey(msg tea.KeyMsg) (authzTabModel, tea.Cmd) {
	if m.screen.loading {
		switch msg.String() {
		case "esc", "c":
			if m.screen.cancel != nil {
				m.screen.cancel()
			}
			m.refresh()
		}
		// The indicator is modal: other keys are swallowed while loading.
		return m, nil
	}

	switch msg.String() {
	case "r":
		return m.startFlow()
	case "o":
		url := m.deps.settingsURL
		if err := m.deps.openURL(url); err != nil {
			m.status = warningStyle.Render(fmt.Sprintf(T("open_failed"), err.Error()))
		} else {
			m.status = successStyle.Render(fmt.Sprintf(T("opened"), url))
		}
		m.refresh()
		return m, nil
	case "y":
		if !m.screen.hasText {
			return m, nil
		}
		if err := m.deps.copyText(m.screen.text); err != nil {
			m.status = warningStyle.Render(fmt.Sprintf(T("copy_failed"), err.Error()))
		} else {
			m.status = successStyle.Render(T("copied"))
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// startFlow replaces the current flow with a fresh one and starts it.
func (m authzTabModel) startFlow() (authzTabModel, tea.Cmd) {
	if m.flow != nil {
		if m.flow.State() == fetch.Loading {
			m.status = warningStyle.Render(T("authz_busy"))
			m.refresh()
			return m, nil
		}
		m.flow.Dispose()
	}
	m.status = ""
	m.screen.notice = ""
	m.flow = fetch.New(m.deps.fetcher, m.screen, m.deps.queue, fetch.WithProgressMessage(T("loading")))
	if err := m.flow.Start(context.Background()); err != nil {
		log.Warnf("tui: failed to start authorization fetch: %v", err)
		return m, nil
	}
	m.refresh()
	return m, m.spinner.Tick
}

// dispose releases the current flow when the view goes away.
func (m *authzTabModel) dispose() {
	if m.flow != nil {
		m.flow.Dispose()
	}
}

func (m authzTabModel) noticeTimer() tea.Cmd {
	if m.screen.notice == "" {
		return nil
	}
	seq := m.screen.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

func (m *authzTabModel) SetSize(w, h int) {
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

func (m *authzTabModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderContent())
}

func (m authzTabModel) View() string {
	if !m.ready {
		return T("loading")
	}
	body := m.viewport.View()
	if m.screen.loading {
		dialog := dialogStyle.Render(fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), m.screen.progressMsg, helpStyle.Render(T("authz_cancel_help"))))
		body = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
	}
	if m.screen.notice != "" {
		body = overlayLastLine(body, toastStyle.Render(m.screen.notice))
	}
	return body
}

func (m authzTabModel) renderContent() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(T("authz_title")))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(T("authz_help")))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", max(m.width, 0)))
	sb.WriteString("\n")

	switch {
	case m.screen.hasText:
		sb.WriteString(textStyle.Width(max(m.width, 1)).Render(m.screen.text))
		sb.WriteString("\n")
	case m.flow != nil && m.flow.State() == fetch.Cancelled:
		sb.WriteString(subtitleStyle.Render(T("authz_cancelled")))
		sb.WriteString("\n")
	case m.flow == nil || m.flow.State() != fetch.Loading:
		sb.WriteString(subtitleStyle.Render(T("authz_idle")))
		sb.WriteString("\n")
	}

	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(m.status)
		sb.WriteString("\n")
	}
	return sb.String()
}

// overlayLastLine replaces the last line of body with line.
func overlayLastLine(body, line string) string {
	lines := strings.Split(body, "\n")
	lines[len(lines)-1] = line
	return strings.Join(lines, "\n")
}
