// SPDX-License-Identifier: Apache-2.0

// Package disposable defines the contract for resources that must be
// explicitly released.
//
// A [Disposable] exposes a disposed flag that transitions exactly once
// (false to true) and never back. Operations on an already-disposed
// resource are a programming error: guard them with [Guard], which returns
// a [*DisposedError]. [Using] provides scoped acquisition, releasing the
// resource when the function returns.
package disposable

import "fmt"

// Disposable is a resource that can be explicitly released.
type Disposable interface {
	// Dispose releases the resource. It is idempotent; only the first
	// call has an effect.
	Dispose()

	// IsDisposed reports whether Dispose has been called.
	IsDisposed() bool
}

// DisposedError indicates an erroneous use of an already-disposed
// resource.
type DisposedError struct {
	// Resource names the disposed resource, e.g. "ConcurrentExecutor".
	Resource string
}

func (e *DisposedError) Error() string {
	if e.Resource == "" {
		return "resource disposed"
	}
	return fmt.Sprintf("%s disposed", e.Resource)
}

// Guard rejects operations on disposed resources.
//
// It returns a [*DisposedError] naming the resource when d is already
// disposed, nil otherwise. Call it at the top of every guarded operation:
//
//	func (e *executor) Execute(...) error {
//	    if err := disposable.Guard(e, "executor"); err != nil {
//	        return err
//	    }
//	    ...
//	}
func Guard(d Disposable, resource string) error {
	if d.IsDisposed() {
		return &DisposedError{Resource: resource}
	}
	return nil
}

// Using runs f with the resource and disposes it when f returns,
// regardless of the outcome. The error from f is returned unchanged.
func Using[D Disposable](d D, f func(D) error) error {
	defer d.Dispose()
	return f(d)
}
