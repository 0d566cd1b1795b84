// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"sync"
)

// An Initializer transforms one setting's raw value into its final form
// during configuration construction.
//
// Multiple initializers may target the same setting; they run as a
// pipeline in registration order, each consuming the prior's output. The
// first one receives the raw value from the settings map, or nil when the
// setting is absent.
type Initializer interface {
	// Setting names the setting this initializer targets.
	Setting() string

	// HasSecrets reports whether the setting's value is sensitive and
	// must not appear in logs.
	HasSecrets() bool

	// Execute transforms raw into the value handed to the next
	// initializer, or stored when this is the last one.
	Execute(ctx context.Context, raw any) (any, error)
}

type initializerFunc struct {
	setting string
	secrets bool
	execute func(context.Context, any) (any, error)
}

func (i *initializerFunc) Setting() string  { return i.setting }
func (i *initializerFunc) HasSecrets() bool { return i.secrets }

func (i *initializerFunc) Execute(ctx context.Context, raw any) (any, error) {
	return i.execute(ctx, raw)
}

// InitializerFunc lifts a function into an [Initializer] for setting.
func InitializerFunc(setting string, f func(context.Context, any) (any, error)) Initializer {
	return &initializerFunc{setting: setting, execute: f}
}

// SecretInitializerFunc is [InitializerFunc] for settings whose values
// must be redacted in logs.
func SecretInitializerFunc(setting string, f func(context.Context, any) (any, error)) Initializer {
	return &initializerFunc{setting: setting, secrets: true, execute: f}
}

// Required returns an [Initializer] that fails construction with a
// [*SettingRequiredError] when setting was not provided, and passes the
// value through untouched otherwise.
func Required(setting string) Initializer {
	return InitializerFunc(setting, func(_ context.Context, raw any) (any, error) {
		if raw == nil {
			return nil, NewSettingRequiredError(setting, "")
		}
		return raw, nil
	})
}

// WithDefault returns an [Initializer] that substitutes fallback when
// setting was not provided.
func WithDefault(setting string, fallback any) Initializer {
	return InitializerFunc(setting, func(_ context.Context, raw any) (any, error) {
		if raw == nil {
			return fallback, nil
		}
		return raw, nil
	})
}

// An InitializerRegistry collects initializer factories contributed by
// the different parts of an application, to be applied together when the
// configuration is built (see [WithRegistry]).
type InitializerRegistry struct {
	mu        sync.Mutex
	factories []func() Initializer
}

// NewInitializerRegistry returns an empty [InitializerRegistry].
func NewInitializerRegistry() *InitializerRegistry {
	return &InitializerRegistry{}
}

// Register adds an initializer factory. Factories are invoked, in
// registration order, each time a configuration is built from this
// registry.
func (r *InitializerRegistry) Register(factory func() Initializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = append(r.factories, factory)
}

// Initializers invokes every registered factory and returns the fresh
// initializers, in registration order.
func (r *InitializerRegistry) Initializers() []Initializer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Initializer, 0, len(r.factories))
	for _, factory := range r.factories {
		out = append(out, factory())
	}
	return out
}
