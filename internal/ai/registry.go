package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type ProviderFactory func(ctx context.Context, model string) (Provider, error)

// Registry routes a provider name to a chat factory and, optionally, a model catalog.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	catalogs  map[string]ModelLister
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]ProviderFactory),
		catalogs:  make(map[string]ModelLister),
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) Register(name string, f ProviderFactory) {
	name = normalize(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) RegisterCatalog(name string, l ModelLister) {
	name = normalize(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[name] = l
}

func (r *Registry) Get(ctx context.Context, name string, model string) (Provider, error) {
	name = normalize(name)
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ai provider: %s", name)
	}
	return f(ctx, model)
}

// Catalog returns the model lister registered for name.
func (r *Registry) Catalog(name string) (ModelLister, error) {
	name = normalize(name)
	r.mu.RLock()
	l, ok := r.catalogs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no model catalog for ai provider: %s", name)
	}
	return l, nil
}
