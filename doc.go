// SPDX-License-Identifier: Apache-2.0

// Package commons is a collection of small, reusable building blocks for
// Go services: validation guards, an error taxonomy, explicit resource
// disposal, task composition and fan-out, retry policies, an in-process
// signal dispatcher, an observable registry, and an application settings
// container.
//
// Each concern lives in its own package and can be adopted independently:
//
//   - [github.com/moyo-labs/commons/check] — argument validation guards
//     that return errors instead of panicking.
//
//   - [github.com/moyo-labs/commons/errs] — wrapping error values with a
//     transient marker that retry policies key off.
//
//   - [github.com/moyo-labs/commons/disposable] — the contract for
//     resources that must be explicitly released, with scoped helpers.
//
//   - [github.com/moyo-labs/commons/task] — composition of context-aware
//     units of work, plus a bounded concurrent executor returning
//     per-task futures.
//
//   - [github.com/moyo-labs/commons/retry] — exponential backoff with
//     full jitter, predicates, and wall-clock budgets.
//
//   - [github.com/moyo-labs/commons/dispatch] — a type-keyed
//     publish/subscribe bus with strong and weak receiver registrations.
//
//   - [github.com/moyo-labs/commons/registry] — a key/value store that
//     announces every mutation through the dispatcher.
//
//   - [github.com/moyo-labs/commons/config] — an immutable settings
//     container built through initializer pipelines, with file loading,
//     hot-swappable proxies, and an optional file watcher.
//
// The packages share two conventions throughout: operations that can
// block accept a context.Context, and misuse (empty keys, disposed
// resources, absent settings) surfaces as a typed error rather than a
// panic.
package commons
