package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simplaapliko/ghauthz/internal/fetch"
)

// Tab identifiers
const (
	tabAuthorizations = iota
	tabLogs
)

var errUnsupported = errors.New("not supported on this platform")

// SettingsURL is GitHub's page for reviewing authorized OAuth apps.
const SettingsURL = "https://github.com/settings/applications"

// Options wires the TUI to its collaborators.
type Options struct {
	// Fetcher loads the authorization list, usually a *github.Client.
	Fetcher fetch.Fetcher
	// Hook feeds the Logs tab. The tab is hidden when nil.
	Hook *LogHook
	// Locale is "en" or "zh".
	Locale string
	// OpenURL opens a URL in the browser.
	OpenURL func(string) error
	// CopyText writes text to the system clipboard.
	CopyText func(string) error
	// SettingsURL overrides the page opened with "o".
	SettingsURL string
	// Output is where bubbletea renders. Defaults to os.Stdout.
	Output io.Writer
}

// appDeps is shared by pointer between tab models.
type appDeps struct {
	fetcher     fetch.Fetcher
	queue       *fetch.Queue
	openURL     func(string) error
	copyText    func(string) error
	settingsURL string
}

// App is the root bubbletea model.
type App struct {
	activeTab int
	tabs      []string

	logsEnabled bool

	deps  *appDeps
	authz authzTabModel
	logs  logsTabModel

	width  int
	height int
	ready  bool
}

// dispatchMsg carries a closure posted on the UI queue by a fetch.Flow.
type dispatchMsg func()

// flowUpdatedMsg tells the Authorizations tab to re-render after a dispatch.
type flowUpdatedMsg struct{}

// localeChangedMsg is broadcast to all tabs when the user toggles locale.
type localeChangedMsg struct{}

// NewApp creates the root TUI application model.
func NewApp(opts Options) App {
	if opts.Locale != "" {
		SetLocale(opts.Locale)
	}
	deps := &appDeps{
		fetcher:     opts.Fetcher,
		queue:       fetch.NewQueue(16),
		openURL:     opts.OpenURL,
		copyText:    opts.CopyText,
		settingsURL: opts.SettingsURL,
	}
	if deps.openURL == nil {
		deps.openURL = func(string) error { return errUnsupported }
	}
	if deps.copyText == nil {
		deps.copyText = func(string) error { return errUnsupported }
	}
	if deps.settingsURL == "" {
		deps.settingsURL = SettingsURL
	}
	app := App{
		activeTab:   tabAuthorizations,
		logsEnabled: opts.Hook != nil,
		deps:        deps,
		authz:       newAuthzTabModel(deps),
		logs:        newLogsTabModel(opts.Hook),
	}
	app.refreshTabs()
	return app
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.authz.Init(), a.waitForDispatch}
	if a.logsEnabled {
		cmds = append(cmds, a.logs.Init())
	}
	return tea.Batch(cmds...)
}

// waitForDispatch blocks on the UI queue and hands the next closure to Update.
func (a App) waitForDispatch() tea.Msg {
	fn, ok := a.deps.queue.Next(context.Background())
	if !ok {
		return nil
	}
	return dispatchMsg(fn)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		contentH := a.height - 2 // tab bar + status bar
		if contentH < 1 {
			contentH = 1
		}
		a.authz.SetSize(a.width, contentH)
		a.logs.SetSize(a.width, contentH)
		return a, nil

	case dispatchMsg:
		msg()
		var cmd tea.Cmd
		a.authz, cmd = a.authz.Update(flowUpdatedMsg{})
		return a, tea.Batch(cmd, a.waitForDispatch)

	case logLineMsg:
		var cmd tea.Cmd
		a.logs, cmd = a.logs.Update(msg)
		return a, cmd

	case startFetchMsg, noticeExpiredMsg, spinner.TickMsg:
		var cmd tea.Cmd
		a.authz, cmd = a.authz.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			a.shutdown()
			return a, tea.Quit
		case "L":
			ToggleLocale()
			a.refreshTabs()
			return a.broadcast(localeChangedMsg{})
		case "tab", "shift+tab":
			if len(a.tabs) > 1 {
				a.activeTab = (a.activeTab + 1) % len(a.tabs)
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.activeTab {
	case tabAuthorizations:
		a.authz, cmd = a.authz.Update(msg)
	case tabLogs:
		a.logs, cmd = a.logs.Update(msg)
	}
	return a, cmd
}

// shutdown disposes the flow before the view goes away and stops the queue.
func (a *App) shutdown() {
	a.authz.dispose()
	a.deps.queue.Close()
}

func (a *App) refreshTabs() {
	names := TabNames()
	if a.logsEnabled {
		a.tabs = names
	} else {
		a.tabs = names[:tabLogs]
	}
	if a.activeTab >= len(a.tabs) {
		a.activeTab = len(a.tabs) - 1
	}
}

func (a App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmdAuthz, cmdLogs tea.Cmd
	a.authz, cmdAuthz = a.authz.Update(msg)
	a.logs, cmdLogs = a.logs.Update(msg)
	return a, tea.Batch(cmdAuthz, cmdLogs)
}

func (a App) View() string {
	if !a.ready {
		return T("initializing_tui")
	}

	var sb strings.Builder
	sb.WriteString(a.renderTabBar())
	sb.WriteString("\n")
	switch a.activeTab {
	case tabAuthorizations:
		sb.WriteString(a.authz.View())
	case tabLogs:
		sb.WriteString(a.logs.View())
	}
	sb.WriteString("\n")
	sb.WriteString(a.renderStatusBar())
	return sb.String()
}

func (a App) renderTabBar() string {
	var tabs []string
	for i, name := range a.tabs {
		if i == a.activeTab {
			tabs = append(tabs, tabActiveStyle.Render(name))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(name))
		}
	}
	return tabBarStyle.Width(a.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (a App) renderStatusBar() string {
	left := strings.TrimRight(T("status_left"), " ")
	right := strings.TrimRight(T("status_right"), " ")

	width := max(a.width, 1)
	// statusBarStyle has left/right padding(1), so content area is width-2.
	contentWidth := max(width-2, 0)
	gap := contentWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		right = ""
		gap = max(contentWidth-lipgloss.Width(left), 0)
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// Run starts the TUI and blocks until the user quits.
func Run(opts Options) error {
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithOutput(output))
	final, err := p.Run()
	if finalApp, ok := final.(App); ok {
		finalApp.shutdown()
	}
	return err
}
