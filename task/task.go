// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/moyo-labs/commons/check"
)

// A Task is a single-input, single-result unit of work.
//
// Composition operators ([Then], [Compose], [Pipe]) produce new Tasks
// without executing anything; execution happens only when the resulting
// Task is invoked.
type Task[I, O any] = func(context.Context, I) (O, error)

// A Supplier provides a result without needing an input.
type Supplier[O any] = func(context.Context) (O, error)

// Of lifts a plain function into a [Task].
func Of[I, O any](f func(I) O) Task[I, O] {
	return func(_ context.Context, in I) (O, error) {
		return f(in), nil
	}
}

// Identity returns a [Task] that returns its input unchanged.
func Identity[T any]() Task[T, T] {
	return func(_ context.Context, in T) (T, error) {
		return in, nil
	}
}

// Const returns a [Task] that ignores its input and always produces value.
func Const[I, O any](value O) Task[I, O] {
	return func(_ context.Context, _ I) (O, error) {
		return value, nil
	}
}

// Supply lifts a plain producer into a [Supplier].
func Supply[O any](f func() O) Supplier[O] {
	return func(_ context.Context) (O, error) {
		return f(), nil
	}
}

// Then chains two tasks: the output of first becomes the input of next.
//
// Example:
//
//	parseAndValidate := task.Then(parse, validate)
func Then[I, M, O any](first Task[I, M], next Task[M, O]) Task[I, O] {
	return func(ctx context.Context, in I) (O, error) {
		m, err := first(ctx, in)
		if err != nil {
			var zero O
			return zero, err
		}
		return next(ctx, m)
	}
}

// Compose is the mirror of [Then]: before runs first, then t consumes its
// output.
func Compose[I, M, O any](t Task[M, O], before Task[I, M]) Task[I, O] {
	return Then(before, t)
}

// Pipe applies a fixed ordered sequence of tasks left to right, each
// consuming the prior's output. At least one task is required.
func Pipe[T any](tasks ...Task[T, T]) (Task[T, T], error) {
	if err := check.NotEmptySlice(tasks, "tasks must not be empty"); err != nil {
		return nil, err
	}
	return func(ctx context.Context, in T) (T, error) {
		acc := in
		for _, t := range tasks {
			out, err := t(ctx, acc)
			if err != nil {
				var zero T
				return zero, err
			}
			acc = out
		}
		return acc, nil
	}, nil
}

// Parallel runs every task against the same input concurrently and
// collects the results in task order.
//
// The first task to fail cancels the rest and its error is returned. For
// fan-out with per-task result handles, use [ConcurrentExecutor].
func Parallel[I, O any](ctx context.Context, input I, tasks ...Task[I, O]) ([]O, error) {
	if err := check.NotEmptySlice(tasks, "tasks must not be empty"); err != nil {
		return nil, err
	}
	results := make([]O, len(tasks))
	group, subCtx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		group.Go(func() error {
			out, err := t(subCtx, input)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
