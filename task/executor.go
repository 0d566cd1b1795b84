// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/moyo-labs/commons/check"
	"github.com/moyo-labs/commons/disposable"
)

// An Executor runs submitted units of work.
//
// The default implementation is a bounded goroutine pool ([NewPool]);
// callers with different needs (unbounded, single-threaded, instrumented)
// can supply their own via [WithExecutor].
type Executor interface {
	// Submit schedules f for execution. It fails after Shutdown.
	Submit(f func()) error

	// Shutdown stops accepting work. When wait is true it blocks until
	// all previously submitted work has finished.
	Shutdown(wait bool)
}

// ErrExecutorShutDown is returned by Submit after Shutdown.
var ErrExecutorShutDown = errors.New("executor shut down")

// pool is a goroutine pool whose parallelism is bounded by a weighted
// semaphore. Submit never blocks; admission happens inside the spawned
// goroutine.
type pool struct {
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewPool returns an [Executor] running at most size units of work
// concurrently. A size below 1 defaults to [runtime.NumCPU].
func NewPool(size int) Executor {
	if size < 1 {
		size = runtime.NumCPU()
	}
	return &pool{sem: semaphore.NewWeighted(int64(size))}
}

func (p *pool) Submit(f func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrExecutorShutDown
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer p.sem.Release(1)
		f()
	}()
	return nil
}

func (p *pool) Shutdown(wait bool) {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	if wait {
		p.wg.Wait()
	}
}

// ExecutorDisposedError indicates an erroneous use of a disposed
// [ConcurrentExecutor].
type ExecutorDisposedError struct {
	disposable.DisposedError
}

func newExecutorDisposedError() *ExecutorDisposedError {
	return &ExecutorDisposedError{disposable.DisposedError{Resource: "ConcurrentExecutor"}}
}

// ExecutorOption configures a [ConcurrentExecutor].
type ExecutorOption func(*executorConfig)

type executorConfig struct {
	wait   bool
	exec   Executor
	logger *slog.Logger
}

// WithoutWaiting makes Execute return immediately with in-flight handles
// instead of blocking until every task completes.
//
// Disposing a non-waiting executor shuts the pool down regardless of
// outstanding work; pair it with explicit [Future.Wait] calls.
func WithoutWaiting() ExecutorOption {
	return func(c *executorConfig) { c.wait = false }
}

// WithExecutor substitutes the resource that runs the tasks. The caller
// retains no ownership: Dispose shuts the supplied executor down.
func WithExecutor(e Executor) ExecutorOption {
	return func(c *executorConfig) { c.exec = e }
}

// WithLogger sets the logger used for per-task failure reports.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(c *executorConfig) { c.logger = l }
}

// A ConcurrentExecutor runs a fixed set of tasks against a shared input.
//
// The task list is fixed at construction; each call to [Execute] submits
// every task to the underlying [Executor] and returns one [Future] per
// task, in task order. In waiting mode (the default) Execute blocks until
// every future has completed; otherwise it returns immediately.
//
// A ConcurrentExecutor is a [disposable.Disposable]: Dispose shuts the
// underlying executor down exactly once, waiting for pending work to
// drain in waiting mode. Every guarded operation afterwards returns a
// [*ExecutorDisposedError].
type ConcurrentExecutor[I, O any] struct {
	id       string
	tasks    []Task[I, O]
	wait     bool
	exec     Executor
	disposed atomic.Bool
	once     sync.Once
	logger   *slog.Logger
}

// NewConcurrentExecutor builds a [ConcurrentExecutor] over the given
// tasks. At least one task is required.
func NewConcurrentExecutor[I, O any](tasks []Task[I, O], opts ...ExecutorOption) (*ConcurrentExecutor[I, O], error) {
	if err := check.NotEmptySlice(tasks, "tasks must not be empty"); err != nil {
		return nil, err
	}
	cfg := executorConfig{wait: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.exec == nil {
		cfg.exec = NewPool(0)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &ConcurrentExecutor[I, O]{
		id:     uuid.NewString(),
		tasks:  append([]Task[I, O](nil), tasks...),
		wait:   cfg.wait,
		exec:   cfg.exec,
		logger: cfg.logger,
	}, nil
}

// Tasks returns the tasks executed by this fan-out.
func (e *ConcurrentExecutor[I, O]) Tasks() []Task[I, O] {
	return append([]Task[I, O](nil), e.tasks...)
}

// IsDisposed reports whether [ConcurrentExecutor.Dispose] has been called.
func (e *ConcurrentExecutor[I, O]) IsDisposed() bool {
	return e.disposed.Load()
}

// Dispose shuts the underlying executor down. Idempotent; in waiting mode
// it blocks until pending work drains.
func (e *ConcurrentExecutor[I, O]) Dispose() {
	e.once.Do(func() {
		e.disposed.Store(true)
		if !e.wait {
			e.logger.Warn("disposing non-waiting executor; in-flight tasks may be abandoned",
				"executor_id", e.id)
		}
		e.exec.Shutdown(e.wait)
	})
}

// Execute runs every task concurrently with the shared input and returns
// one [Future] per task, in task order.
//
// In waiting mode it returns only after all futures have completed; in
// non-waiting mode the futures may still be in flight. Individual task
// failures land on the corresponding future, never on the returned error,
// which reports only submission problems.
func (e *ConcurrentExecutor[I, O]) Execute(ctx context.Context, input I) ([]*Future[O], error) {
	if e.IsDisposed() {
		return nil, newExecutorDisposedError()
	}
	futures := make([]*Future[O], len(e.tasks))
	for i, t := range e.tasks {
		fut := newFuture[O]()
		futures[i] = fut
		if err := e.exec.Submit(func() {
			result, err := t(ctx, input)
			if err != nil {
				e.logger.Error("task failed",
					"executor_id", e.id, "task_index", i, "error", err)
			}
			fut.complete(result, err)
		}); err != nil {
			var zero O
			fut.complete(zero, err)
		}
	}
	if e.wait {
		for _, fut := range futures {
			<-fut.done
		}
	}
	return futures, nil
}
