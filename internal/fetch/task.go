package fetch

import (
	"context"
	"errors"
	"sync"
)

// Outcome is the three-way completion of a Task: a value, an error, or cancellation.
// Exactly one of the three is meaningful; Cancelled takes precedence over Err.
type Outcome[T any] struct {
	Value     T
	Err       error
	Cancelled bool
}

// Task runs fn on its own goroutine with a cancellable context.
type Task[T any] struct {
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	outcome Outcome[T]
}

// Go starts fn in the background. The context passed to fn is derived from ctx
// and is cancelled by Task.Cancel.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	taskCtx, cancel := context.WithCancel(ctx)
	t := &Task[T]{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer cancel()
		value, err := fn(taskCtx)
		t.complete(taskCtx, value, err)
	}()
	return t
}

func (t *Task[T]) complete(ctx context.Context, value T, err error) {
	t.once.Do(func() {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			t.outcome = Outcome[T]{Cancelled: true}
		case err != nil:
			t.outcome = Outcome[T]{Err: err}
		default:
			t.outcome = Outcome[T]{Value: value}
		}
		close(t.done)
	})
}

// Cancel requests cancellation. It is safe to call more than once and after completion.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Done is closed once the outcome is available.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Outcome blocks until the task finishes and returns its result.
func (t *Task[T]) Outcome() Outcome[T] {
	<-t.done
	return t.outcome
}
