package async

import (
	"context"
	"time"
)

// Future is the handle of a background computation producing a value.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the computation finishes and returns its result and
// error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout blocks until the computation finishes or the timeout
// elapses, returning ErrTimeout in the latter case. The computation keeps
// running.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the computation has finished, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn with the given parameter on its own goroutine and returns a
// Future for its result. A context that is already cancelled fails the
// computation with the context's error without running fn.
func Async[T, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// WaitAll blocks until every computation finishes and returns the results in
// argument order together with the first error encountered.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var firstErr error
	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return results, firstErr
}

// WaitAny blocks until one computation finishes and returns its index,
// result and error. Calling it with no futures returns ErrNoFutures.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	var zero U
	if len(futures) == 0 {
		return -1, zero, ErrNoFutures
	}

	type result struct {
		index  int
		result U
		err    error
	}
	done := make(chan result, len(futures))

	for i, future := range futures {
		go func(index int, f *Future[U]) {
			r, err := f.Await()
			done <- result{index, r, err}
		}(i, future)
	}

	res := <-done
	return res.index, res.result, res.err
}
