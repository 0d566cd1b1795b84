// SPDX-License-Identifier: Apache-2.0

package task

import "context"

// A Future is the handle to one task submitted to a [ConcurrentExecutor].
//
// A task's failure is captured on its Future and is never raised
// synchronously from the fan-out call; inspect the handle to discover it.
type Future[O any] struct {
	done   chan struct{}
	result O
	err    error
}

func newFuture[O any]() *Future[O] {
	return &Future[O]{done: make(chan struct{})}
}

// complete records the outcome and unblocks waiters. Called exactly once.
func (f *Future[O]) complete(result O, err error) {
	f.result = result
	f.err = err
	close(f.done)
}

// Done reports whether the task has finished, without blocking.
func (f *Future[O]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the task finishes or ctx is cancelled, then returns
// the task's result and error.
func (f *Future[O]) Wait(ctx context.Context) (O, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero O
		return zero, ctx.Err()
	}
}

// Succeeded reports whether the task finished without error.
//
// It returns false while the task is still running.
func (f *Future[O]) Succeeded() bool {
	return f.Done() && f.err == nil
}
