package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simplaapliko/ghauthz/internal/fetch"
	"github.com/simplaapliko/ghauthz/internal/github"
)

type stubFetcher struct {
	release chan struct{}
	list    github.AuthorizationList
	err     error
}

func (s *stubFetcher) ListAuthorizations(ctx context.Context) (github.AuthorizationList, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.list, s.err
}

func newTestApp(t *testing.T, fetcher fetch.Fetcher) App {
	t.Helper()
	SetLocale("en")
	app := NewApp(Options{Fetcher: fetcher, Hook: NewLogHook(8)})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return model.(App)
}

func update(t *testing.T, app App, msg tea.Msg) App {
	t.Helper()
	model, _ := app.Update(msg)
	return model.(App)
}

func TestAppRendersFetchedAuthorizations(t *testing.T) {
	list := github.AuthorizationList{{ID: 1, Note: "laptop", Scopes: []string{"repo"}}}
	app := newTestApp(t, &stubFetcher{list: list})

	app = update(t, app, startFetchMsg{})
	if !app.authz.screen.loading {
		t.Fatal("expected indicator visible after start")
	}
	if !strings.Contains(app.View(), "Loading...") {
		t.Fatalf("expected loading dialog in view:\n%s", app.View())
	}

	app = update(t, app, app.waitForDispatch())
	if app.authz.screen.loading {
		t.Fatal("expected indicator dismissed")
	}
	if app.authz.screen.text != list.String() {
		t.Fatalf("expected %q, got %q", list.String(), app.authz.screen.text)
	}
	if !strings.Contains(app.View(), "note=laptop") {
		t.Fatalf("expected rendered list in view:\n%s", app.View())
	}
}

func TestAppShowsNoticeOnFailureAndExpiresIt(t *testing.T) {
	app := newTestApp(t, &stubFetcher{err: errors.New("Bad credentials")})

	app = update(t, app, startFetchMsg{})
	app = update(t, app, app.waitForDispatch())

	if app.authz.screen.notice != "Bad credentials" {
		t.Fatalf("expected notice, got %q", app.authz.screen.notice)
	}
	if app.authz.screen.loading {
		t.Fatal("expected indicator dismissed")
	}
	if !strings.Contains(app.View(), "Bad credentials") {
		t.Fatalf("expected notice in view:\n%s", app.View())
	}

	app = update(t, app, noticeExpiredMsg{seq: app.authz.screen.noticeSeq - 1})
	if app.authz.screen.notice == "" {
		t.Fatal("stale expiry must not clear the current notice")
	}
	app = update(t, app, noticeExpiredMsg{seq: app.authz.screen.noticeSeq})
	if app.authz.screen.notice != "" {
		t.Fatal("expected notice cleared")
	}
}

func TestAppRefreshClearsPendingNotice(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("Bad credentials")}
	app := newTestApp(t, fetcher)

	app = update(t, app, startFetchMsg{})
	app = update(t, app, app.waitForDispatch())
	if app.authz.screen.notice == "" {
		t.Fatal("expected failure notice")
	}

	fetcher.release = make(chan struct{})
	app = update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if !app.authz.screen.loading {
		t.Fatal("expected a new fetch to be loading")
	}
	if app.authz.screen.notice != "" {
		t.Fatalf("stale notice must be cleared, got %q", app.authz.screen.notice)
	}
	if strings.Contains(app.View(), "Bad credentials") {
		t.Fatalf("loading dialog shown with stale notice:\n%s", app.View())
	}
	close(fetcher.release)
}

func TestAppCancelKeyDismissesIndicator(t *testing.T) {
	fetcher := &stubFetcher{release: make(chan struct{}), list: github.AuthorizationList{{ID: 1}}}
	app := newTestApp(t, fetcher)

	app = update(t, app, startFetchMsg{})
	app = update(t, app, tea.KeyMsg{Type: tea.KeyEsc})

	if app.authz.screen.loading {
		t.Fatal("expected indicator dismissed after cancel")
	}
	if app.authz.flow.State() != fetch.Cancelled {
		t.Fatalf("expected cancelled, got %s", app.authz.flow.State())
	}
	app = update(t, app, app.waitForDispatch())
	if app.authz.screen.hasText {
		t.Fatal("cancelled request must not render")
	}
	close(fetcher.release)
}

func TestAppRefreshWhileLoadingIsRejected(t *testing.T) {
	fetcher := &stubFetcher{release: make(chan struct{})}
	app := newTestApp(t, fetcher)

	app = update(t, app, startFetchMsg{})
	first := app.authz.flow
	app = update(t, app, startFetchMsg{})
	if app.authz.flow != first {
		t.Fatal("expected the in-flight flow to be kept")
	}
	if !strings.Contains(app.authz.status, T("authz_busy")) {
		t.Fatalf("expected busy status, got %q", app.authz.status)
	}
	close(fetcher.release)
}

func TestAppQuitDisposesFlow(t *testing.T) {
	fetcher := &stubFetcher{release: make(chan struct{})}
	app := newTestApp(t, fetcher)

	app = update(t, app, startFetchMsg{})
	flow := app.authz.flow
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !flow.Disposed() || flow.State() != fetch.Cancelled {
		t.Fatalf("expected disposed cancelled flow, state=%s", flow.State())
	}
	if msg := model.(App).waitForDispatch(); msg != nil {
		t.Fatalf("expected closed queue after quit, got %T", msg)
	}
}

func TestAppCopyAndOpenActions(t *testing.T) {
	var copied, opened string
	SetLocale("en")
	app := NewApp(Options{
		Fetcher:  &stubFetcher{list: github.AuthorizationList{}},
		OpenURL:  func(u string) error { opened = u; return nil },
		CopyText: func(s string) error { copied = s; return nil },
	})
	app = update(t, app, tea.WindowSizeMsg{Width: 80, Height: 20})
	app = update(t, app, startFetchMsg{})
	app = update(t, app, app.waitForDispatch())

	app = update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if copied != "[]" {
		t.Fatalf("expected rendered list copied, got %q", copied)
	}
	app = update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	if opened != SettingsURL {
		t.Fatalf("expected settings url opened, got %q", opened)
	}
	if len(app.tabs) != 1 {
		t.Fatalf("expected logs tab hidden without hook, got %v", app.tabs)
	}
}
