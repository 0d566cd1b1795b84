// SPDX-License-Identifier: Apache-2.0

// Package dispatch implements an in-process publish/subscribe bus.
//
// Receivers subscribe to a signal type; senders fan a signal value out to
// every receiver registered for that type, on the sender's goroutine.
// Registrations may be strong ([Connect]) or weak ([ConnectWeak]): a weak
// registration does not keep the receiving object alive, and is dropped
// lazily once the object has been collected.
//
// The generic entry points accept a [Bus], so they work identically
// against a [Dispatcher] or a hot-swappable [Proxy].
package dispatch

import (
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
	"weak"

	"github.com/google/uuid"
)

// A Receiver handles signals of type S.
//
// An error returned from a receiver is logged during [Send] and halts
// delivery during [SendStrict]; it never unregisters the receiver.
type Receiver[S any] = func(S) error

// A Bus accepts receiver registrations and delivers signals.
//
// [Dispatcher] and [Proxy] are the two implementations; the package-level
// generic functions are the public surface.
type Bus interface {
	connect(sig reflect.Type, key receiverKey, e *entry)
	disconnect(sig reflect.Type, key receiverKey)
	send(sig reflect.Type, signal any, strict bool) error
}

// receiverKey identifies a registration: the receiver's func-value
// identity (method code pointer for weak registrations), the owning
// object for weak registrations, and the registration mode. Registering
// the same receiver in both modes yields two entries.
type receiverKey struct {
	owner uintptr
	fn    uintptr
	weak  bool
}

type entry struct {
	// invoke delivers the signal. A dead weak receiver is a no-op.
	invoke func(signal any) error

	// alive is nil for strong registrations.
	alive func() bool

	// onCollect, when set, arranges for markDead to run after the weak
	// owner is collected. Only weak entries carry it.
	onCollect func(markDead func())
}

func (e *entry) isAlive() bool {
	return e.alive == nil || e.alive()
}

// A Dispatcher routes signals to receivers keyed by signal type.
//
// All structural mutation happens under one mutex; receivers themselves
// run outside it, on the sending goroutine. The zero value is not usable;
// construct with [New].
type Dispatcher struct {
	id     string
	logger *slog.Logger

	mu      sync.Mutex
	entries map[reflect.Type]map[receiverKey]*entry

	// dead is flipped by weak-receiver cleanups; the next structural
	// operation sweeps collected entries out.
	dead atomic.Bool
}

// DispatcherOption configures a [Dispatcher].
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used to report receiver failures during
// robust delivery.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// New returns an empty [Dispatcher].
func New(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		id:      uuid.NewString(),
		entries: make(map[reflect.Type]map[receiverKey]*entry),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// signalType returns the subscription key for S.
func signalType[S any]() reflect.Type {
	return reflect.TypeOf((*S)(nil)).Elem()
}

// funcID returns the identity of a func value: the address of its
// underlying closure object. Unlike the code pointer, it distinguishes
// closures created separately from the same function literal.
func funcID[S any](r Receiver[S]) uintptr {
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&r)))
}

// Connect registers r for signals of type S, keeping it alive for as
// long as the registration exists.
//
// Registrations are keyed by func-value identity: re-connecting the same
// func value is idempotent, while distinct closures of one function
// literal subscribe independently. Disconnecting requires the same func
// value that was connected.
func Connect[S any](b Bus, r Receiver[S]) {
	key := receiverKey{fn: funcID(r)}
	b.connect(signalType[S](), key, &entry{
		invoke: func(signal any) error { return r(signal.(S)) },
	})
}

// Disconnect removes the strong registration of r for signals of type S,
// if any.
func Disconnect[S any](b Bus, r Receiver[S]) {
	key := receiverKey{fn: funcID(r)}
	b.disconnect(signalType[S](), key)
}

// ConnectWeak registers owner's method for signals of type S without
// keeping owner alive.
//
// Once owner becomes unreachable the registration turns inert and is
// swept out on a later structural operation; until then delivery to it is
// a no-op. Re-connecting the same (owner, method) pair is idempotent.
func ConnectWeak[O, S any](b Bus, owner *O, method func(*O, S) error) {
	key := receiverKey{
		owner: reflect.ValueOf(owner).Pointer(),
		fn:    reflect.ValueOf(method).Pointer(),
		weak:  true,
	}
	wp := weak.Make(owner)
	e := &entry{
		invoke: func(signal any) error {
			o := wp.Value()
			if o == nil {
				return nil
			}
			return method(o, signal.(S))
		},
		alive: func() bool { return wp.Value() != nil },
		onCollect: func(markDead func()) {
			runtime.AddCleanup(owner, func(mark func()) { mark() }, markDead)
		},
	}
	b.connect(signalType[S](), key, e)
}

// DisconnectWeak removes the weak registration of (owner, method) for
// signals of type S, whether or not owner is still alive.
func DisconnectWeak[O, S any](b Bus, owner *O, method func(*O, S) error) {
	key := receiverKey{
		owner: reflect.ValueOf(owner).Pointer(),
		fn:    reflect.ValueOf(method).Pointer(),
		weak:  true,
	}
	b.disconnect(signalType[S](), key)
}

// Send delivers signal to every receiver registered for S, robustly:
// each receiver runs even when earlier ones fail, and failures are
// logged. Delivery order is unspecified.
func Send[S any](b Bus, signal S) {
	_ = b.send(signalType[S](), signal, false)
}

// SendStrict delivers signal to receivers registered for S, stopping at
// the first receiver error, which it returns.
func SendStrict[S any](b Bus, signal S) error {
	return b.send(signalType[S](), signal, true)
}

func (d *Dispatcher) connect(sig reflect.Type, key receiverKey, e *entry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked()
	m, ok := d.entries[sig]
	if !ok {
		m = make(map[receiverKey]*entry)
		d.entries[sig] = m
	}
	m[key] = e
	if e.onCollect != nil {
		// The cleanup only flags the dispatcher; the entry itself is
		// removed by a later sweep.
		e.onCollect(func() { d.dead.Store(true) })
		// The hook closure holds the owner strongly; it must not
		// outlive registration or the owner can never be collected.
		e.onCollect = nil
	}
}

func (d *Dispatcher) disconnect(sig reflect.Type, key receiverKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked()
	if m, ok := d.entries[sig]; ok {
		delete(m, key)
		if len(m) == 0 {
			delete(d.entries, sig)
		}
	}
}

func (d *Dispatcher) send(sig reflect.Type, signal any, strict bool) error {
	d.mu.Lock()
	d.sweepLocked()
	var targets []*entry
	for _, e := range d.entries[sig] {
		targets = append(targets, e)
	}
	d.mu.Unlock()

	for _, e := range targets {
		if err := e.invoke(signal); err != nil {
			if strict {
				return err
			}
			d.logger.Error("signal receiver failed",
				"dispatcher_id", d.id, "signal", sig.String(), "error", err)
		}
	}
	return nil
}

// sweepLocked drops entries whose weak owner has been collected. It runs
// only when a cleanup has flagged dead entries since the last sweep.
func (d *Dispatcher) sweepLocked() {
	if !d.dead.Swap(false) {
		return
	}
	for sig, m := range d.entries {
		for key, e := range m {
			if !e.isAlive() {
				delete(m, key)
			}
		}
		if len(m) == 0 {
			delete(d.entries, sig)
		}
	}
}
