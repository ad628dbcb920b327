// Package fetch drives the asynchronous authorization fetch behind a view:
// it shows a cancelable loading indicator, runs the request off the UI context,
// and marshals exactly one outcome back before touching the view.
package fetch

import (
	"context"
	"errors"

	"github.com/simplaapliko/ghauthz/internal/github"
	"github.com/simplaapliko/ghauthz/internal/logging"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInFlight is returned by Start while a request is outstanding.
	ErrInFlight = errors.New("fetch: request already in flight")
	// ErrFinished is returned by Start once the flow reached a terminal state.
	ErrFinished = errors.New("fetch: flow already finished")
	// ErrDisposed is returned by Start after Dispose.
	ErrDisposed = errors.New("fetch: flow disposed")
)

// Fetcher loads the authorization list. github.Client satisfies it.
type Fetcher interface {
	ListAuthorizations(ctx context.Context) (github.AuthorizationList, error)
}

// View is the UI surface driven by a Flow. Every method is invoked on the UI context.
type View interface {
	// ShowProgress displays the modal indicator. cancel must be called on the UI context.
	ShowProgress(message string, cancel func())
	DismissProgress()
	SetText(text string)
	// ShowNotice displays a transient message, e.g. an error.
	ShowNotice(message string)
}

// Option configures a Flow.
type Option func(*Flow)

// WithProgressMessage sets the text shown next to the loading indicator.
func WithProgressMessage(message string) Option {
	return func(f *Flow) { f.progressMessage = message }
}

// WithErrorMessage overrides how failures are turned into notice text.
func WithErrorMessage(fn func(error) string) Option {
	return func(f *Flow) {
		if fn != nil {
			f.messageFor = fn
		}
	}
}

// Flow is a one-shot fetch bound to a view. A Flow's state is only read and written
// on the goroutine draining its Queue; create a new Flow to fetch again.
type Flow struct {
	fetcher         Fetcher
	view            View
	queue           *Queue
	progressMessage string
	messageFor      func(error) string

	state     State
	task      *Task[github.AuthorizationList]
	indicator bool
	disposed  bool
	requestID string

	list    github.AuthorizationList
	err     error
	message string
}

// New creates an idle flow. Completions are delivered through queue.
func New(fetcher Fetcher, view View, queue *Queue, opts ...Option) *Flow {
	f := &Flow{
		fetcher:         fetcher,
		view:            view,
		queue:           queue,
		progressMessage: "Loading...",
		messageFor:      github.ErrorMessage,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start issues the request. It must be called on the UI context.
func (f *Flow) Start(ctx context.Context) error {
	if f.disposed {
		return ErrDisposed
	}
	switch f.state {
	case Idle:
	case Loading:
		return ErrInFlight
	default:
		return ErrFinished
	}

	f.requestID = logging.GenerateRequestID()
	ctx = logging.WithRequestID(ctx, f.requestID)

	f.state = Loading
	f.indicator = true
	task := Go(ctx, f.fetcher.ListAuthorizations)
	f.task = task
	go func() {
		<-task.Done()
		f.queue.Post(func() { f.deliver(task) })
	}()

	// The view may invoke cancel before ShowProgress returns.
	f.view.ShowProgress(f.progressMessage, f.Cancel)

	logging.Entry(ctx).WithField("state", f.state).Debug("authorization fetch started")
	return nil
}

// deliver applies the outcome of task. Stale, cancelled or post-dispose deliveries are dropped.
func (f *Flow) deliver(task *Task[github.AuthorizationList]) {
	if f.disposed || f.task != task || f.state != Loading {
		return
	}
	f.task = nil
	outcome := task.Outcome()
	entry := f.entry()

	switch {
	case outcome.Cancelled:
		f.state = Cancelled
		f.dismiss()
		entry.WithField("state", f.state).Info("authorization fetch cancelled")
	case outcome.Err != nil:
		f.state = Failed
		f.err = outcome.Err
		f.message = f.messageFor(outcome.Err)
		f.dismiss()
		f.view.ShowNotice(f.message)
		entry.WithFields(log.Fields{"state": f.state, "error": outcome.Err}).Warn("authorization fetch failed")
	default:
		f.state = Success
		f.list = outcome.Value
		f.view.SetText(outcome.Value.String())
		f.dismiss()
		entry.WithFields(log.Fields{"state": f.state, "count": len(outcome.Value)}).Info("authorizations loaded")
	}
}

// Cancel abandons the outstanding request. It is a no-op unless the flow is Loading.
func (f *Flow) Cancel() {
	if f.disposed || f.state != Loading {
		return
	}
	f.cancelTask()
	f.state = Cancelled
	f.dismiss()
	f.entry().WithField("state", f.state).Info("authorization fetch cancelled by user")
}

// Dispose is called by the owner when its view goes away. An outstanding request is
// cancelled and nothing is delivered to the view afterwards.
func (f *Flow) Dispose() {
	if f.disposed {
		return
	}
	f.disposed = true
	if f.state == Loading {
		f.cancelTask()
		f.state = Cancelled
		f.indicator = false
		f.entry().WithField("state", f.state).Debug("authorization fetch disposed while loading")
	}
}

func (f *Flow) cancelTask() {
	if f.task != nil {
		f.task.Cancel()
		f.task = nil
	}
}

func (f *Flow) dismiss() {
	if !f.indicator {
		return
	}
	f.indicator = false
	f.view.DismissProgress()
}

func (f *Flow) entry() *log.Entry {
	return logging.Entry(logging.WithRequestID(context.Background(), f.requestID))
}

// State returns the current state.
func (f *Flow) State() State { return f.state }

// Authorizations returns the fetched list once the flow succeeded.
func (f *Flow) Authorizations() github.AuthorizationList { return f.list }

// Err returns the failure cause once the flow failed.
func (f *Flow) Err() error { return f.err }

// Message returns the notice text shown for a failure.
func (f *Flow) Message() string { return f.message }

// Disposed reports whether Dispose has been called.
func (f *Flow) Disposed() bool { return f.disposed }
