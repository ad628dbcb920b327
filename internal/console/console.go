// Package console runs the authorization fetch without a full-screen UI, for pipes,
// CI logs and terminals where the TUI is not wanted.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/simplaapliko/ghauthz/internal/fetch"
	log "github.com/sirupsen/logrus"
)

// Exit codes returned by Run.
const (
	ExitOK        = 0
	ExitFailed    = 1
	ExitCancelled = 130
)

// View is a fetch.View writing the result to out and everything else to errOut.
type View struct {
	out    io.Writer
	errOut io.Writer
	cancel func()
}

// NewView creates a View. Nil writers default to os.Stdout and os.Stderr.
func NewView(out, errOut io.Writer) *View {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &View{out: out, errOut: errOut}
}

func (v *View) ShowProgress(message string, cancel func()) {
	v.cancel = cancel
	_, _ = fmt.Fprintf(v.errOut, "%s (Ctrl+C to cancel)\n", message)
}

func (v *View) DismissProgress() {
	v.cancel = nil
}

func (v *View) SetText(text string) {
	_, _ = fmt.Fprintln(v.out, text)
}

func (v *View) ShowNotice(message string) {
	_, _ = fmt.Fprintf(v.errOut, "error: %s\n", message)
}

// Cancel triggers the affordance handed to ShowProgress. It must run on the queue.
func (v *View) Cancel() {
	if v.cancel != nil {
		v.cancel()
	}
}

// Options configures Run.
type Options struct {
	Out    io.Writer
	ErrOut io.Writer
	// Interrupts delivers cancel requests, usually from signal.Notify(ch, os.Interrupt).
	Interrupts <-chan os.Signal
}

// Run fetches the authorization list once and blocks until the flow reaches a
// terminal state. It returns the process exit code.
func Run(ctx context.Context, fetcher fetch.Fetcher, opts Options) int {
	queue := fetch.NewQueue(4)
	defer queue.Close()

	view := NewView(opts.Out, opts.ErrOut)
	flow := fetch.New(fetcher, view, queue)
	// ctx bounds the wait; the request itself is only cancelled through the flow.
	if err := flow.Start(context.WithoutCancel(ctx)); err != nil {
		log.Errorf("console: failed to start fetch: %v", err)
		return ExitFailed
	}

	stop := make(chan struct{})
	defer close(stop)
	if opts.Interrupts != nil {
		go func() {
			select {
			case <-opts.Interrupts:
				queue.Post(view.Cancel)
			case <-stop:
			}
		}()
	}

	if err := queue.RunUntil(ctx, func() bool { return flow.State().Terminal() }); err != nil {
		flow.Dispose()
		log.Debugf("console: stopped waiting: %v", err)
		return ExitCancelled
	}

	switch flow.State() {
	case fetch.Success:
		return ExitOK
	case fetch.Failed:
		return ExitFailed
	default:
		_, _ = fmt.Fprintln(view.errOut, "cancelled")
		return ExitCancelled
	}
}
