// SPDX-License-Identifier: Apache-2.0

// Package config provides an immutable application settings container.
//
// A [Config] is built once from a raw settings map plus optional
// [Initializer] pipelines that validate and transform individual
// settings; afterwards it is read-only. [Proxy] gives long-lived
// components a stable handle whose backing Config the application can
// swap, and [Watcher] keeps a proxy in sync with a settings file on
// disk.
package config

import (
	"context"
	"errors"
	"log/slog"
	"maps"

	"github.com/moyo-labs/commons/task"
)

// A Config is a read-only view of application settings.
type Config interface {
	// Has reports whether setting is present.
	Has(setting string) (bool, error)

	// Value returns the setting's value, or a [*NoSuchSettingError].
	Value(setting string) (any, error)

	// Get returns the setting's value, or fallback when absent.
	Get(setting string, fallback any) (any, error)
}

type config struct {
	settings map[string]any
}

// Option configures construction of a [Config].
type Option func(*builder)

type builder struct {
	initializers []Initializer
	logger       *slog.Logger
}

// WithInitializers adds initializers to apply during construction, in
// the given order.
func WithInitializers(inits ...Initializer) Option {
	return func(b *builder) { b.initializers = append(b.initializers, inits...) }
}

// WithRegistry applies every initializer contributed to the registry,
// after those given directly via [WithInitializers].
func WithRegistry(r *InitializerRegistry) Option {
	return func(b *builder) {
		b.initializers = append(b.initializers, r.Initializers()...)
	}
}

// WithSetupLogger sets the logger used while running initializers.
func WithSetupLogger(l *slog.Logger) Option {
	return func(b *builder) { b.logger = l }
}

// New builds a [Config] from settings.
//
// Initializers targeting the same setting run as one pipeline in
// registration order: the first receives the raw value (nil when the
// setting is absent), each next one consumes the prior's output, and the
// final output is stored. Settings without initializers are stored
// verbatim; an initializer targeting an absent setting can introduce it.
// Any initializer failure aborts construction with a
// [*ImproperlyConfiguredError], except [*SettingRequiredError], which is
// returned as-is.
func New(ctx context.Context, settings map[string]any, opts ...Option) (Config, error) {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	store := make(map[string]any, len(settings))
	maps.Copy(store, settings)

	// Group pipelines by setting, preserving first-seen order.
	order := make([]string, 0, len(b.initializers))
	groups := make(map[string][]Initializer)
	for _, init := range b.initializers {
		name := init.Setting()
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], init)
	}

	for _, name := range order {
		group := groups[name]
		secret := false
		steps := make([]task.Task[any, any], 0, len(group))
		for _, init := range group {
			secret = secret || init.HasSecrets()
			steps = append(steps, init.Execute)
		}
		pipeline, err := task.Pipe(steps...)
		if err != nil {
			return nil, NewImproperlyConfiguredError(name, err)
		}

		b.logger.Debug("initializing setting",
			"setting", name, "initializers", len(group), "secret", secret)
		value, err := pipeline(ctx, store[name])
		if err != nil {
			var required *SettingRequiredError
			if errors.As(err, &required) {
				return nil, err
			}
			return nil, NewImproperlyConfiguredError(name, err)
		}
		store[name] = value
	}

	return &config{settings: store}, nil
}

func (c *config) Has(setting string) (bool, error) {
	_, ok := c.settings[setting]
	return ok, nil
}

func (c *config) Value(setting string) (any, error) {
	value, ok := c.settings[setting]
	if !ok {
		return nil, NewNoSuchSettingError(setting)
	}
	return value, nil
}

func (c *config) Get(setting string, fallback any) (any, error) {
	if value, ok := c.settings[setting]; ok {
		return value, nil
	}
	return fallback, nil
}

// NotSetup returns a [Config] whose every access fails with a
// [*NotSetupError]. It is the default source behind a [Proxy], marking
// the window before the application installs a real configuration. An
// empty msg selects the default message.
func NotSetup(msg string) Config {
	return notSetup{msg: msg}
}

type notSetup struct {
	msg string
}

func (n notSetup) Has(string) (bool, error) {
	return false, NewNotSetupError(n.msg)
}

func (n notSetup) Value(string) (any, error) {
	return nil, NewNotSetupError(n.msg)
}

func (n notSetup) Get(string, any) (any, error) {
	return nil, NewNotSetupError(n.msg)
}
