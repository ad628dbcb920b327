package tui

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// LogHook is a logrus hook that forwards formatted entries to the Logs tab.
// When the buffer is full the oldest line is dropped so logging never blocks the app.
type LogHook struct {
	lines     chan string
	mu        sync.Mutex
	formatter log.Formatter
}

// NewLogHook creates a LogHook buffering up to bufSize lines.
func NewLogHook(bufSize int) *LogHook {
	if bufSize < 1 {
		bufSize = 1
	}
	return &LogHook{
		lines:     make(chan string, bufSize),
		formatter: &log.TextFormatter{DisableColors: true, FullTimestamp: true},
	}
}

// SetFormatter sets the formatter used to render entries.
func (h *LogHook) SetFormatter(f log.Formatter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.formatter = f
}

// Levels returns the log levels this hook fires on.
func (h *LogHook) Levels() []log.Level {
	return log.AllLevels
}

// Fire is called by logrus for each entry.
func (h *LogHook) Fire(entry *log.Entry) error {
	h.push(h.render(entry))
	return nil
}

func (h *LogHook) render(entry *log.Entry) string {
	h.mu.Lock()
	f := h.formatter
	h.mu.Unlock()

	if f != nil {
		if b, err := f.Format(entry); err == nil {
			return strings.TrimRight(string(b), "\r\n")
		}
	}
	return fmt.Sprintf("[%s] %s", entry.Level, entry.Message)
}

func (h *LogHook) push(line string) {
	for i := 0; i < 2; i++ {
		select {
		case h.lines <- line:
			return
		default:
		}
		select {
		case <-h.lines:
		default:
		}
	}
}

// Chan returns the channel log lines are delivered on.
func (h *LogHook) Chan() <-chan string {
	return h.lines
}
