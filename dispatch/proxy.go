// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"reflect"
	"sync/atomic"
)

// A Proxy is a stable [Bus] handle over a swappable [Dispatcher].
//
// Long-lived components hold the proxy; the application can replace the
// dispatcher behind it at any time with [Proxy.SetSource]. Operations
// always hit the source current at call time, so registrations made
// before a swap stay with the old dispatcher.
type Proxy struct {
	src atomic.Pointer[Dispatcher]
}

// NewProxy returns a [Proxy] over d. A nil d starts the proxy over a
// fresh empty dispatcher.
func NewProxy(d *Dispatcher) *Proxy {
	if d == nil {
		d = New()
	}
	p := &Proxy{}
	p.src.Store(d)
	return p
}

// Source returns the dispatcher currently behind the proxy.
func (p *Proxy) Source() *Dispatcher {
	return p.src.Load()
}

// SetSource replaces the dispatcher behind the proxy.
func (p *Proxy) SetSource(d *Dispatcher) {
	p.src.Store(d)
}

func (p *Proxy) connect(sig reflect.Type, key receiverKey, e *entry) {
	p.Source().connect(sig, key, e)
}

func (p *Proxy) disconnect(sig reflect.Type, key receiverKey) {
	p.Source().disconnect(sig, key)
}

func (p *Proxy) send(sig reflect.Type, signal any, strict bool) error {
	return p.Source().send(sig, signal, strict)
}
