// SPDX-License-Identifier: Apache-2.0

// Package retry provides retry policies for operations that fail
// transiently.
//
// The [ExponentialBackoff] policy repeats a failed operation with
// randomized, exponentially growing delays until it succeeds, the
// predicate rejects the error, or an optional wall-clock timeout elapses.
// [Noop] is a disableable placeholder that runs the operation exactly
// once.
//
// Only apply retry policies to idempotent operations.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/moyo-labs/commons/check"
	"github.com/moyo-labs/commons/errs"
)

// A Predicate decides whether a failed operation should be retried.
//
// It acts as an allow-list: errors it rejects propagate immediately.
type Predicate = func(error) bool

// IfTransient is the default [Predicate]; it accepts errors marked
// transient (see [errs.IsTransient]).
var IfTransient Predicate = errs.IsTransient

// IfErrorIs returns a [Predicate] accepting errors whose chain contains
// any of the given targets.
func IfErrorIs(targets ...error) Predicate {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// Any combines predicates with logical OR.
func Any(predicates ...Predicate) Predicate {
	return func(err error) bool {
		for _, p := range predicates {
			if p(err) {
				return true
			}
		}
		return false
	}
}

// All combines predicates with logical AND.
func All(predicates ...Predicate) Predicate {
	return func(err error) bool {
		for _, p := range predicates {
			if !p(err) {
				return false
			}
		}
		return true
	}
}

// A Retrier wraps an operation so that eligible failures are retried.
type Retrier interface {
	// Run invokes op, retrying per the policy. It returns nil as soon
	// as op succeeds, op's error when the policy declines to retry it,
	// or a [*ExhaustedError] when the policy gives up.
	Run(ctx context.Context, op func(context.Context) error) error
}

// ExhaustedError indicates that a retry policy gave up.
//
// The last error raised by the retried operation is reachable through
// errors.Unwrap.
type ExhaustedError struct {
	// Timeout is the policy's configured wall-clock budget.
	Timeout time.Duration

	cause error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("timeout of %s exceeded while retrying: %v", e.Timeout, e.cause)
}

// Unwrap returns the last error raised by the retried operation.
func (e *ExhaustedError) Unwrap() error {
	return e.cause
}

// Defaults mirroring the usual shape of a network-facing policy.
const (
	DefaultInitialDelay = 2 * time.Second
	DefaultMaximumDelay = 60 * time.Second
	DefaultTimeout      = 5 * time.Minute
	DefaultFactor       = 2.0
)

// Option configures an [ExponentialBackoff] policy.
type Option func(*ExponentialBackoff)

// WithPredicate sets the retry-eligibility predicate. Default:
// [IfTransient].
func WithPredicate(p Predicate) Option {
	return func(b *ExponentialBackoff) { b.predicate = p }
}

// WithInitialDelay sets the base delay before the first retry. It must be
// greater than zero.
func WithInitialDelay(d time.Duration) Option {
	return func(b *ExponentialBackoff) { b.initialDelay = d }
}

// WithMaximumDelay caps individual delays. It must be at least the
// initial delay.
func WithMaximumDelay(d time.Duration) Option {
	return func(b *ExponentialBackoff) { b.maximumDelay = d }
}

// WithTimeout bounds the total wall-clock time spent retrying, measured
// per invocation of Run. Zero means retry indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(b *ExponentialBackoff) { b.timeout = d }
}

// WithFactor sets the multiplier applied to the base delay after each
// retry. It must be greater than zero.
func WithFactor(f float64) Option {
	return func(b *ExponentialBackoff) { b.factor = f }
}

// WithBackoffLogger sets the logger used to report backoff waits.
func WithBackoffLogger(l *slog.Logger) Option {
	return func(b *ExponentialBackoff) { b.logger = l }
}

// ExponentialBackoff retries with randomized exponential delays.
//
// The delay before retry n is min(uniform(0, 2*base_n), maximumDelay)
// with base_0 = initialDelay and base_{n+1} = base_n * factor. When a
// timeout is set, the last delay is shortened so the next attempt starts
// no later than the deadline; once the deadline passes, Run gives up with
// a [*ExhaustedError].
//
// The configuration is immutable after construction; a single policy may
// be shared across goroutines.
type ExponentialBackoff struct {
	predicate    Predicate
	initialDelay time.Duration
	maximumDelay time.Duration
	timeout      time.Duration
	factor       float64
	logger       *slog.Logger
}

// NewExponentialBackoff builds a policy from the defaults plus the given
// options, validating every numeric constraint.
func NewExponentialBackoff(opts ...Option) (*ExponentialBackoff, error) {
	b := &ExponentialBackoff{
		predicate:    IfTransient,
		initialDelay: DefaultInitialDelay,
		maximumDelay: DefaultMaximumDelay,
		timeout:      DefaultTimeout,
		factor:       DefaultFactor,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if err := check.First(
		check.NotNil(b.predicate, "predicate must not be nil"),
		check.GreaterThan(b.initialDelay, 0, "initial delay must be greater than zero"),
		check.GreaterOrEqual(b.maximumDelay, b.initialDelay,
			"maximum delay must be greater than or equal to the initial delay"),
		check.GreaterOrEqual(b.timeout, 0, "timeout must not be negative"),
		check.GreaterThan(b.factor, 0, "factor must be greater than zero"),
	); err != nil {
		return nil, err
	}
	return b, nil
}

// Run implements [Retrier].
//
// The deadline is computed once per invocation; separate calls get
// separate budgets. Backoff sleeps honor ctx cancellation.
func (b *ExponentialBackoff) Run(ctx context.Context, op func(context.Context) error) error {
	var deadline time.Time
	if b.timeout > 0 {
		deadline = time.Now().Add(b.timeout)
	}

	base := b.initialDelay
	for {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !b.predicate(err) {
			return err
		}

		delay := b.nextDelay(base)
		base = time.Duration(float64(base) * b.factor)

		if !deadline.IsZero() {
			now := time.Now()
			if now.After(deadline) {
				return &ExhaustedError{Timeout: b.timeout, cause: err}
			}
			if remaining := deadline.Sub(now); delay > remaining {
				delay = remaining
			}
		}

		b.logger.Warn("retrying after failure",
			"error", err, "delay", delay)
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}
}

// nextDelay draws a jittered delay: uniform over [0, 2*base), clamped to
// the maximum delay.
func (b *ExponentialBackoff) nextDelay(base time.Duration) time.Duration {
	span := 2 * base
	if span <= 0 {
		// base overflowed; the ceiling applies anyway.
		return b.maximumDelay
	}
	return min(rand.N(span), b.maximumDelay)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Noop returns a [Retrier] that runs the operation exactly once,
// untouched. Useful as a placeholder where a policy is required or to
// disable retrying.
func Noop() Retrier {
	return noop{}
}

type noop struct{}

func (noop) Run(ctx context.Context, op func(context.Context) error) error {
	return op(ctx)
}

// Do runs f under the policy and returns its result.
//
// It exists because Go methods cannot be generic; it is the typed
// counterpart of [Retrier.Run]:
//
//	cfg, err := retry.Do(ctx, policy, fetchConfig)
func Do[T any](ctx context.Context, r Retrier, f func(context.Context) (T, error)) (T, error) {
	var result T
	err := r.Run(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = f(ctx)
		return opErr
	})
	return result, err
}
