// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/moyo-labs/commons/dispatch"
)

// Reloaded announces that the watched settings file changed and a fresh
// configuration was swapped into the proxy.
type Reloaded struct {
	Path string
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithRebuild replaces how a changed settings map becomes a [Config].
// The default is [New] with no initializers.
func WithRebuild(f func(context.Context, map[string]any) (Config, error)) WatcherOption {
	return func(w *Watcher) { w.rebuild = f }
}

// WithDebounce sets how long the watcher waits after the last write
// before reloading, absorbing editor save bursts. Default 200ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// A Watcher keeps a [Proxy] in sync with a settings file.
//
// On every change to the file it reloads the settings, rebuilds the
// configuration, swaps it into the proxy and announces a [Reloaded]
// signal on the bus. A reload that fails leaves the previous
// configuration in place.
//
// A Watcher owns a goroutine and an OS watch handle; release both with
// Dispose.
type Watcher struct {
	path     string
	proxy    *Proxy
	bus      dispatch.Bus
	rebuild  func(context.Context, map[string]any) (Config, error)
	debounce time.Duration
	logger   *slog.Logger

	fs       *fsnotify.Watcher
	done     chan struct{}
	disposed atomic.Bool
	once     sync.Once
}

// Watch starts watching the settings file at path, updating proxy and
// announcing reloads on bus.
//
// The file's directory is watched rather than the file itself, so
// editors that replace the file on save keep triggering reloads.
func Watch(path string, proxy *Proxy, bus dispatch.Bus, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewConfigurationError("resolving settings path", err)
	}

	w := &Watcher{
		path:     abs,
		proxy:    proxy,
		bus:      bus,
		debounce: 200 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.rebuild == nil {
		w.rebuild = func(ctx context.Context, settings map[string]any) (Config, error) {
			return New(ctx, settings)
		}
	}

	w.fs, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, NewConfigurationError("starting settings watcher", err)
	}
	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		_ = w.fs.Close()
		return nil, NewConfigurationError("watching settings directory", err)
	}

	go w.run()
	return w, nil
}

// IsDisposed reports whether [Watcher.Dispose] has been called.
func (w *Watcher) IsDisposed() bool {
	return w.disposed.Load()
}

// Dispose stops the watch goroutine and releases the OS watch handle.
// Idempotent.
func (w *Watcher) Dispose() {
	w.once.Do(func() {
		w.disposed.Store(true)
		_ = w.fs.Close()
		<-w.done
	})
}

func (w *Watcher) run() {
	defer close(w.done)

	var pending *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(w.debounce)
				fire = pending.C
			} else {
				pending.Reset(w.debounce)
			}
		case <-fire:
			pending, fire = nil, nil
			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("settings watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) reload() {
	settings, err := LoadSettings(w.path)
	if err != nil {
		w.logger.Error("settings reload failed; keeping previous configuration",
			"path", w.path, "error", err)
		return
	}
	cfg, err := w.rebuild(context.Background(), settings)
	if err != nil {
		w.logger.Error("configuration rebuild failed; keeping previous configuration",
			"path", w.path, "error", err)
		return
	}
	w.proxy.SetSource(cfg)
	w.logger.Info("configuration reloaded", "path", w.path)
	dispatch.Send(w.bus, Reloaded{Path: w.path})
}
