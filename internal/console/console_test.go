package console

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/simplaapliko/ghauthz/internal/github"
)

type blockingFetcher struct{}

func (blockingFetcher) ListAuthorizations(ctx context.Context) (github.AuthorizationList, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newServer(t *testing.T, status int, body string) *github.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/authorizations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return github.NewClientWithHTTP(srv.Client(), srv.URL, "Basic abc123")
}

func TestRunPrintsListOnSuccess(t *testing.T) {
	client := newServer(t, http.StatusOK, `[{"id":1,"note":"laptop","scopes":["repo"]}]`)
	var out, errOut bytes.Buffer

	code := Run(context.Background(), client, Options{Out: &out, ErrOut: &errOut})
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut.String())
	}
	want := github.AuthorizationList{{ID: 1, Note: "laptop", Scopes: []string{"repo"}}}.String()
	if strings.TrimSpace(out.String()) != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
	if !strings.Contains(errOut.String(), "Loading...") {
		t.Fatalf("expected indicator on stderr, got %q", errOut.String())
	}
}

func TestRunReportsAPIError(t *testing.T) {
	client := newServer(t, http.StatusUnauthorized, `{"message":"Bad credentials"}`)
	var out, errOut bytes.Buffer

	code := Run(context.Background(), client, Options{Out: &out, ErrOut: &errOut})
	if code != ExitFailed {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected empty stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "error: Bad credentials") {
		t.Fatalf("expected notice on stderr, got %q", errOut.String())
	}
}

func TestRunCancelsOnInterrupt(t *testing.T) {
	interrupts := make(chan os.Signal, 1)
	interrupts <- os.Interrupt
	var out, errOut bytes.Buffer

	done := make(chan int, 1)
	go func() { done <- Run(context.Background(), blockingFetcher{}, Options{Out: &out, ErrOut: &errOut, Interrupts: interrupts}) }()

	select {
	case code := <-done:
		if code != ExitCancelled {
			t.Fatalf("expected exit 130, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after interrupt")
	}
	if out.Len() != 0 {
		t.Fatalf("cancelled fetch must not print, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "cancelled") {
		t.Fatalf("expected cancellation note, got %q", errOut.String())
	}
}

func TestRunStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var out, errOut bytes.Buffer

	if code := Run(ctx, blockingFetcher{}, Options{Out: &out, ErrOut: &errOut}); code != ExitCancelled {
		t.Fatalf("expected exit 130, got %d", code)
	}
}
