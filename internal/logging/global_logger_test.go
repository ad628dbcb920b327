package logging

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func TestLogFormatterIncludesRequestIDAndOrderedFields(t *testing.T) {
	entry := log.NewEntry(log.New()).WithFields(log.Fields{
		"status":       200,
		"method":       "GET",
		requestIDField: "abcd1234",
		"ignored":      "x",
	})
	entry.Time = time.Date(2025, 12, 23, 20, 14, 4, 0, time.UTC)
	entry.Level = log.WarnLevel
	entry.Message = "fetched\n"
	entry.Caller = &runtime.Frame{File: "/src/internal/github/client.go", Line: 88}

	out, err := (&LogFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[2025-12-23 20:14:04] [abcd1234] [warn ] [client.go:88] fetched method=GET status=200\n"
	if string(out) != want {
		t.Fatalf("unexpected line\nwant %q\n got %q", want, string(out))
	}
}

func TestLogFormatterWithoutRequestID(t *testing.T) {
	entry := log.NewEntry(log.New())
	entry.Level = log.InfoLevel
	entry.Message = "hello"

	out, err := (&LogFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "[--------] [info ] hello") {
		t.Fatalf("unexpected line %q", string(out))
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	id := GenerateRequestID()
	if len(id) != 8 {
		t.Fatalf("expected 8-character id, got %q", id)
	}
	ctx := WithRequestID(context.Background(), id)
	if got := GetRequestID(ctx); got != id {
		t.Fatalf("expected %q, got %q", id, got)
	}
	if got := Entry(ctx).Data[requestIDField]; got != id {
		t.Fatalf("expected entry to carry request id, got %v", got)
	}
	if GetRequestID(context.Background()) != "" {
		t.Fatal("expected empty id for bare context")
	}
}
