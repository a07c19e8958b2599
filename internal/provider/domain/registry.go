package domain

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownProvider = errors.New("unknown_provider")

// Registry holds the fixed set of providers enabled by configuration.
// Selection is by exact name; there is no runtime registration.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry filters the given adapters down to the enabled names. Every
// enabled name must have a matching adapter, otherwise startup should fail.
func NewRegistry(enabled []string, adapters ...Provider) (*Registry, error) {
	byName := make(map[string]Provider, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	selected := make(map[string]Provider, len(enabled))
	for _, name := range enabled {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
		}
		selected[name] = p
	}
	return &Registry{providers: selected}, nil
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
