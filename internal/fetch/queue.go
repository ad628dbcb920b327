package fetch

import (
	"context"
	"sync"
)

// Queue is a single-threaded execution context. Any goroutine may Post work;
// only the goroutine draining the queue runs it, in order.
type Queue struct {
	ch        chan func()
	closed    chan struct{}
	closeOnce sync.Once
}

// NewQueue returns a queue buffering up to size pending closures.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		ch:     make(chan func(), size),
		closed: make(chan struct{}),
	}
}

// Post schedules fn. It blocks while the buffer is full and returns false once
// the queue has been closed, in which case fn never runs.
func (q *Queue) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-q.closed:
		return false
	default:
	}
	select {
	case q.ch <- fn:
		return true
	case <-q.closed:
		return false
	}
}

// Next blocks until a closure is available, the queue is closed or ctx is done.
// A closed queue reports false even while closures are still buffered.
func (q *Queue) Next(ctx context.Context) (func(), bool) {
	select {
	case <-q.closed:
		return nil, false
	default:
	}
	select {
	case fn := <-q.ch:
		return fn, true
	case <-q.closed:
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
}

// RunUntil runs posted closures on the calling goroutine until stop reports true,
// the queue is closed or ctx is done. stop is evaluated before each wait.
func (q *Queue) RunUntil(ctx context.Context, stop func() bool) error {
	for {
		if stop != nil && stop() {
			return nil
		}
		fn, ok := q.Next(ctx)
		if !ok {
			return ctx.Err()
		}
		fn()
	}
}

// Close stops accepting work. Pending closures are discarded.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.closed) })
}
