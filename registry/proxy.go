// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"sync/atomic"

	"github.com/moyo-labs/commons/dispatch"
)

// A Proxy is a stable [Registry] handle over a swappable source.
//
// Operations forward to the source current at call time.
type Proxy struct {
	src atomic.Value // Registry
}

// NewProxy returns a [Proxy] over src. A nil src starts the proxy over a
// fresh [NewDefault] registry.
func NewProxy(src Registry) *Proxy {
	if src == nil {
		src = NewDefault()
	}
	p := &Proxy{}
	p.src.Store(&src)
	return p
}

// Source returns the registry currently behind the proxy.
func (p *Proxy) Source() Registry {
	return *p.src.Load().(*Registry)
}

// SetSource replaces the registry behind the proxy.
func (p *Proxy) SetSource(src Registry) {
	p.src.Store(&src)
}

func (p *Proxy) Has(key string) (bool, error)  { return p.Source().Has(key) }
func (p *Proxy) Get(key string) (any, error)   { return p.Source().Get(key) }
func (p *Proxy) Set(key string, value any) error {
	return p.Source().Set(key, value)
}
func (p *Proxy) Delete(key string) error { return p.Source().Delete(key) }

func (p *Proxy) Lookup(key string, fallback any) (any, error) {
	return p.Source().Lookup(key, fallback)
}

func (p *Proxy) Pop(key string, fallback any) (any, error) {
	return p.Source().Pop(key, fallback)
}

func (p *Proxy) SetDefault(key string, value any) (any, error) {
	return p.Source().SetDefault(key, value)
}

func (p *Proxy) Dispatcher() dispatch.Bus { return p.Source().Dispatcher() }
