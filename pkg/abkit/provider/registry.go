package provider

import (
	"fmt"
	"sort"
	"sync"

	aberrors "github.com/promptchad/promptchad/pkg/abkit/errors"
)

//go:generate mockgen -destination=./mocks/mock_provider.go -package=mocks github.com/promptchad/promptchad/pkg/abkit/provider Factory,Adapter

// Registry manages the available provider factories. It is constructed
// explicitly and injected where needed; there is no package-level instance.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry returns a registry with all built-in providers registered
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Explicit registration keeps provider wiring visible at the call site
	// instead of hiding it in init side effects.
	for _, factory := range []Factory{
		&OpenAIFactory{},
		&AnthropicFactory{},
		&GoogleFactory{},
		&XAIFactory{},
	} {
		if err := r.Register(factory); err != nil {
			panic(err)
		}
	}

	return r
}

// Register adds a provider factory to the registry
func (r *Registry) Register(factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := factory.Name()
	if name == "" {
		return aberrors.New("registry", "register",
			fmt.Errorf("provider factory name cannot be empty"))
	}

	if _, exists := r.factories[name]; exists {
		return aberrors.New("registry", "register",
			fmt.Errorf("provider factory %q already registered", name))
	}

	r.factories[name] = factory
	return nil
}

// Lookup returns a provider factory by name
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, aberrors.New("registry", "lookup",
			fmt.Errorf("%w: %s", aberrors.ErrProviderNotFound, name))
	}

	return factory, nil
}

// Names returns the registered provider names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.factories))
	for name := range r.factories {
		result = append(result, name)
	}
	sort.Strings(result)

	return result
}
