package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/simplaapliko/ghauthz/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&config.Config{APIURL: server.URL + "/"}, "Basic abc123")
}

func TestListAuthorizations_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/authorizations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Basic abc123" {
			t.Errorf("expected credentials forwarded, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != acceptHeader {
			t.Errorf("unexpected accept header %q", got)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "ghauthz/") {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"app":{"name":"octo app","client_id":"abc"},"note":"ci","token_last_eight":"12345678","scopes":["repo","gist"],"created_at":"2016-05-01T10:00:00Z"}]`))
	})

	list, err := client.ListAuthorizations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != 1 || list[0].App.Name != "octo app" {
		t.Fatalf("unexpected list: %+v", list)
	}
	want := "[Authorization{id=1, app=octo app, note=ci, token=…12345678, scopes=[repo, gist], created=2016-05-01T10:00:00Z}]"
	if got := list.String(); got != want {
		t.Fatalf("unexpected rendering\nwant %q\n got %q", want, got)
	}
}

func TestListAuthorizations_EmptyBodyArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	list, err := client.ListAuthorizations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil || len(list) != 0 || list.String() != "[]" {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}

func TestListAuthorizations_BadCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials","documentation_url":"https://docs.github.com/rest"}`))
	})

	_, err := client.ListAuthorizations(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.DocumentationURL != "https://docs.github.com/rest" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if got := ErrorMessage(err); got != "Bad credentials" {
		t.Fatalf("expected message %q, got %q", "Bad credentials", got)
	}
}

func TestListAuthorizations_NonJSONErrorFallsBackToStatusText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.ListAuthorizations(context.Background())
	if got := ErrorMessage(err); got != "Bad Gateway" {
		t.Fatalf("expected status text, got %q", got)
	}
}

func TestListAuthorizations_DecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})

	_, err := client.ListAuthorizations(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork for decode failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to parse response") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestListAuthorizations_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClientWithHTTP(&http.Client{Timeout: time.Second}, baseURL, "")
	_, err := client.ListAuthorizations(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if ErrorMessage(err) == "" {
		t.Fatal("expected a non-empty message")
	}
}

func TestListAuthorizations_CancelledIsNotNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.ListAuthorizations(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrNetwork) {
		t.Fatal("cancellation must not be reported as a network failure")
	}
}
