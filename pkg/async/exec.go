package async

import (
	"context"
	"time"
)

// ExecFuture is the handle of a background task that reports only an error,
// such as a long-running lifecycle loop.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Await blocks until the task finishes and returns its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout blocks until the task finishes or the timeout elapses,
// returning ErrTimeout in the latter case. The task keeps running.
func (f *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	select {
	case <-f.done:
		return f.err
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// IsComplete reports whether the task has finished, without blocking.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Exec runs fn with the given parameter on its own goroutine and returns a
// handle to wait on. A context that is already cancelled fails the task with
// the context's error without running fn.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.err = fn(ctx, param)
	}()

	return f
}

// ExecAll blocks until every task finishes and returns the first error
// encountered, in argument order.
func ExecAll(futures ...*ExecFuture) error {
	var firstErr error
	for _, future := range futures {
		if err := future.Await(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ExecAny blocks until one task finishes and returns its index and error.
// Calling it with no futures returns ErrNoFutures.
func ExecAny(futures ...*ExecFuture) (int, error) {
	if len(futures) == 0 {
		return -1, ErrNoFutures
	}

	type result struct {
		index int
		err   error
	}
	done := make(chan result, len(futures))

	for i, future := range futures {
		go func(index int, f *ExecFuture) {
			done <- result{index, f.Await()}
		}(i, future)
	}

	res := <-done
	return res.index, res.err
}
