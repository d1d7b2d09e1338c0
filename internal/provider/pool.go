// Package provider builds rpc clients from configuration and fans calls out
// across every configured endpoint.
package provider

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/guanqun/uethers/internal/config"
	"github.com/guanqun/uethers/rpc"
)

// Pool hands out one rpc.Client per configured provider. Clients are built
// on first use and then shared, so connections are reused across commands.
type Pool struct {
	providers []config.Provider
	opts      []rpc.Option

	mu      sync.RWMutex
	clients map[string]*rpc.Client
}

// NewPool returns a pool over cfg's providers. opts are applied to every
// client after the per-provider name and HTTP timeout.
func NewPool(cfg *config.Config, opts ...rpc.Option) *Pool {
	return &Pool{
		providers: cfg.Providers,
		opts:      opts,
		clients:   make(map[string]*rpc.Client),
	}
}

// Providers returns the configured providers in file order.
func (p *Pool) Providers() []config.Provider {
	return p.providers
}

// Client returns the client for the named provider.
func (p *Pool) Client(name string) (*rpc.Client, error) {
	p.mu.RLock()
	c, ok := p.clients[name]
	p.mu.RUnlock()
	if ok {
		return c, nil
	}

	for _, prov := range p.providers {
		if prov.Name == name {
			return p.getOrCreate(prov), nil
		}
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}

func (p *Pool) getOrCreate(prov config.Provider) *rpc.Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	// another goroutine may have built it while we waited
	if c, ok := p.clients[prov.Name]; ok {
		return c
	}

	opts := append([]rpc.Option{
		rpc.WithName(prov.Name),
		rpc.WithHTTPClient(&http.Client{Timeout: prov.Timeout}),
	}, p.opts...)
	c := rpc.NewClient(prov.URL, opts...)
	p.clients[prov.Name] = c
	return c
}
