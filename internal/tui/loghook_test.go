package tui

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func fire(t *testing.T, hook *LogHook, level log.Level, msg string) {
	t.Helper()
	entry := log.NewEntry(log.New())
	entry.Level = level
	entry.Message = msg
	if err := hook.Fire(entry); err != nil {
		t.Fatalf("fire: %v", err)
	}
}

func TestLogHookDropsOldestWhenFull(t *testing.T) {
	hook := NewLogHook(2)
	hook.SetFormatter(nil)

	fire(t, hook, log.InfoLevel, "one")
	fire(t, hook, log.InfoLevel, "two")
	fire(t, hook, log.InfoLevel, "three")

	if got := len(hook.Chan()); got != 2 {
		t.Fatalf("expected 2 buffered lines, got %d", got)
	}
	if got := <-hook.Chan(); got != "[info] two" {
		t.Fatalf("expected oldest line dropped, got %q", got)
	}
	if got := <-hook.Chan(); got != "[info] three" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestLogHookFallbackFormat(t *testing.T) {
	hook := NewLogHook(1)
	hook.SetFormatter(nil)

	fire(t, hook, log.WarnLevel, "disk almost full")
	if got := <-hook.Chan(); got != "[warning] disk almost full" {
		t.Fatalf("unexpected line %q", got)
	}
}
