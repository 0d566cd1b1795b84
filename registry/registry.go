// SPDX-License-Identifier: Apache-2.0

// Package registry provides an observable key/value store.
//
// Every successful mutation is announced through a [dispatch.Bus]: an
// [ItemSet] after a value is stored, an [ItemRemoved] after one is
// removed. Signals fire after the store has changed, so receivers always
// observe the post-mutation state.
package registry

import (
	"fmt"
	"sync"

	"github.com/moyo-labs/commons/check"
	"github.com/moyo-labs/commons/dispatch"
)

// ItemSet announces that a value was stored under Key. It also fires
// when [Registry.SetDefault] inserts its default.
type ItemSet struct {
	Key   string
	Value any
}

// ItemRemoved announces that the value under Key was removed, whether by
// Delete or by a Pop that found the key.
type ItemRemoved struct {
	Key string
}

// NoSuchItemError indicates a lookup of a missing key.
type NoSuchItemError struct {
	Key string
}

func (e *NoSuchItemError) Error() string {
	return fmt.Sprintf("no item registered under %q", e.Key)
}

// A Registry is an observable string-keyed store.
//
// All operations reject empty keys. Implementations are safe for
// concurrent use; mutation signals run on the mutating goroutine.
type Registry interface {
	// Has reports whether key is present.
	Has(key string) (bool, error)

	// Get returns the value under key, or a [*NoSuchItemError].
	Get(key string) (any, error)

	// Lookup returns the value under key, or fallback when absent.
	Lookup(key string, fallback any) (any, error)

	// Set stores value under key, replacing any previous value, and
	// emits [ItemSet].
	Set(key string, value any) error

	// Delete removes key, emitting [ItemRemoved]. A missing key is a
	// [*NoSuchItemError] and emits nothing.
	Delete(key string) error

	// Pop removes and returns the value under key, emitting
	// [ItemRemoved]; when key is absent it returns fallback and emits
	// nothing.
	Pop(key string, fallback any) (any, error)

	// SetDefault stores value under key only when key is absent,
	// returning the value now present. Only an actual insert emits
	// [ItemSet].
	SetDefault(key string, value any) (any, error)

	// Dispatcher returns the bus mutation signals are sent on.
	Dispatcher() dispatch.Bus
}

type registry struct {
	bus dispatch.Bus

	mu    sync.RWMutex
	items map[string]any
}

// New returns a [Registry] announcing mutations on the given bus.
func New(bus dispatch.Bus) Registry {
	if bus == nil {
		bus = dispatch.New()
	}
	return &registry{bus: bus, items: make(map[string]any)}
}

// NewDefault returns a [Registry] with its own private dispatcher.
func NewDefault() Registry {
	return New(dispatch.New())
}

func checkKey(key string) error {
	return check.NotEmpty(key, "key must not be empty")
}

func (r *registry) Has(key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[key]
	return ok, nil
}

func (r *registry) Get(key string) (any, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.items[key]
	if !ok {
		return nil, &NoSuchItemError{Key: key}
	}
	return value, nil
}

func (r *registry) Lookup(key string, fallback any) (any, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if value, ok := r.items[key]; ok {
		return value, nil
	}
	return fallback, nil
}

func (r *registry) Set(key string, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	r.mu.Lock()
	r.items[key] = value
	r.mu.Unlock()
	dispatch.Send(r.bus, ItemSet{Key: key, Value: value})
	return nil
}

func (r *registry) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	r.mu.Lock()
	_, ok := r.items[key]
	if ok {
		delete(r.items, key)
	}
	r.mu.Unlock()
	if !ok {
		return &NoSuchItemError{Key: key}
	}
	dispatch.Send(r.bus, ItemRemoved{Key: key})
	return nil
}

func (r *registry) Pop(key string, fallback any) (any, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	r.mu.Lock()
	value, ok := r.items[key]
	if ok {
		delete(r.items, key)
	}
	r.mu.Unlock()
	if !ok {
		return fallback, nil
	}
	dispatch.Send(r.bus, ItemRemoved{Key: key})
	return value, nil
}

func (r *registry) SetDefault(key string, value any) (any, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	r.mu.Lock()
	existing, ok := r.items[key]
	if !ok {
		r.items[key] = value
	}
	r.mu.Unlock()
	if ok {
		return existing, nil
	}
	dispatch.Send(r.bus, ItemSet{Key: key, Value: value})
	return value, nil
}

func (r *registry) Dispatcher() dispatch.Bus {
	return r.bus
}

// GetAs returns the value under key asserted to type T. A present value
// of the wrong dynamic type is an error naming both types.
func GetAs[T any](r Registry, key string) (T, error) {
	var zero T
	value, err := r.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("item under %q is %T, not %T", key, value, zero)
	}
	return typed, nil
}
