// Package eventloop runs closures one at a time on a single goroutine. The
// board state and its views are owned by that goroutine, so handlers never
// interleave and need no locks.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// PanicError reports a task that panicked. Only that task is abandoned.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("event loop task panicked: %v", e.Value)
}

// Unwrap exposes panic values that are errors.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

type task struct {
	fn   func()
	done chan error
}

// Loop is a single-goroutine task queue.
type Loop struct {
	tasks   chan task
	stopped chan struct{}
	logger  *slog.Logger
}

// New creates a loop with a queue of the given depth.
func New(queue int, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		tasks:   make(chan task, queue),
		stopped: make(chan struct{}),
		logger:  logger,
	}
}

// Run executes queued tasks until ctx is cancelled. Tasks still queued at
// that point fail with ErrStopped.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			l.drain()
			return nil
		case t := <-l.tasks:
			t.done <- l.execute(t.fn)
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case t := <-l.tasks:
			t.done <- ErrStopped
		default:
			return
		}
	}
}

func (l *Loop) execute(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := &PanicError{Value: r, Stack: debug.Stack()}
			l.logger.Error("event loop task panicked", "panic", r)
			err = perr
		}
	}()
	fn()
	return nil
}

// Do runs fn on the loop and waits for it to finish. If ctx ends before fn
// is queued, fn never runs; once queued Do waits for the result so the
// caller never races the task. Calling Do from inside a task deadlocks.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	t := task{fn: fn, done: make(chan error, 1)}
	select {
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case l.tasks <- t:
	}
	select {
	case err := <-t.done:
		return err
	case <-l.stopped:
		select {
		case err := <-t.done:
			return err
		default:
			return ErrStopped
		}
	}
}

// Stopped is closed once Run returns.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}
