// SPDX-License-Identifier: Apache-2.0

package config

import "sync/atomic"

// A Proxy is a stable [Config] handle over a swappable source.
//
// Until the application installs a real configuration with
// [Proxy.SetSource], every access fails with a [*NotSetupError].
type Proxy struct {
	src atomic.Value // Config
}

// NewProxy returns a [Proxy] over src. A nil src starts the proxy in the
// not-set-up state.
func NewProxy(src Config) *Proxy {
	if src == nil {
		src = NotSetup("")
	}
	p := &Proxy{}
	p.src.Store(&src)
	return p
}

// Source returns the configuration currently behind the proxy.
func (p *Proxy) Source() Config {
	return *p.src.Load().(*Config)
}

// SetSource replaces the configuration behind the proxy.
func (p *Proxy) SetSource(src Config) {
	p.src.Store(&src)
}

func (p *Proxy) Has(setting string) (bool, error) {
	return p.Source().Has(setting)
}

func (p *Proxy) Value(setting string) (any, error) {
	return p.Source().Value(setting)
}

func (p *Proxy) Get(setting string, fallback any) (any, error) {
	return p.Source().Get(setting, fallback)
}
