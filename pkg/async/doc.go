// Package async runs functions on background goroutines behind future
// handles. Async returns a Future[U] for computations that produce a value;
// Exec returns an ExecFuture for tasks that only report an error, such as
// lifecycle loops. Both respect a context that is cancelled before the
// function starts.
//
// Usage:
//
//	future := async.Async(ctx, "tickets", fetchCount)
//
//	count, err := future.Await()
//	if err != nil {
//		return err
//	}
//
// WaitAll and ExecAll gather every handle and surface the first error;
// WaitAny and ExecAny return as soon as one finishes. AwaitWithTimeout bounds
// a single wait with ErrTimeout.
package async
