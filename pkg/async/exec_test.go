package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/techfixpro/appkit/pkg/async"
)

func TestExecFunctionality(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var ran bool
	future := async.Exec(ctx, "sweep", func(ctx context.Context, name string) error {
		ran = name == "sweep"
		return nil
	})

	if err := future.Await(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("expected the task to run with its parameter")
	}
	if !future.IsComplete() {
		t.Error("expected future to be complete after Await")
	}
}

func TestExecPropagatesError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	wantErr := errors.New("sweep failed")
	future := async.Exec(ctx, 0, func(ctx context.Context, _ int) error {
		return wantErr
	})

	if err := future.Await(); !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestExecCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	future := async.Exec(ctx, 0, func(ctx context.Context, _ int) error {
		t.Error("task must not run under a cancelled context")
		return nil
	})

	if err := future.Await(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExecAwaitWithTimeout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	future := async.Exec(ctx, 0, func(ctx context.Context, _ int) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	if err := future.AwaitWithTimeout(10 * time.Millisecond); !errors.Is(err, async.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
	if err := future.Await(); err != nil {
		t.Errorf("unexpected error after the task finished: %v", err)
	}
}

func TestExecAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	wantErr := errors.New("second loop failed")
	sleepFor := func(ctx context.Context, d time.Duration) error {
		time.Sleep(d)
		return nil
	}

	err := async.ExecAll(
		async.Exec(ctx, 10*time.Millisecond, sleepFor),
		async.Exec(ctx, 0, func(ctx context.Context, _ int) error { return wantErr }),
		async.Exec(ctx, 20*time.Millisecond, sleepFor),
	)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestExecAny(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sleepFor := func(ctx context.Context, d time.Duration) error {
		time.Sleep(d)
		return nil
	}

	index, err := async.ExecAny(
		async.Exec(ctx, 200*time.Millisecond, sleepFor),
		async.Exec(ctx, 5*time.Millisecond, sleepFor),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index != 1 {
		t.Errorf("expected the fastest task (index 1), got %d", index)
	}
}

func TestExecAnyEmpty(t *testing.T) {
	t.Parallel()

	if _, err := async.ExecAny(); !errors.Is(err, async.ErrNoFutures) {
		t.Errorf("expected ErrNoFutures, got %v", err)
	}
}
