// Package registries defines the metadata-fetch collaborators the
// packages domain syncs from. Adapters are compiled in and registered
// explicitly; there is no runtime discovery.
package registries

import (
	"context"
	"sort"

	"github.com/agentstation/utc"

	"github.com/metafunctor/mf/pkg/errors"
)

// Metadata is what an adapter knows about one package. Fetch results
// are passed into the store as-is; adapters never mutate stores.
type Metadata struct {
	Name           string
	LatestVersion  string
	Description    string
	Homepage       string
	RegistryURL    string
	License        string
	InstallCommand string
	FetchedAt      utc.Time
}

// Adapter fetches package metadata from one registry. Fetch returns
// an error satisfying errors.Is(err, ErrNotFound) for unknown
// packages.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, name string) (*Metadata, error)
}

// Registry is the explicit adapter table.
type Registry struct {
	adapters map[string]Adapter
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter after checking it is usable: it must report
// a non-empty name not already taken.
func (r *Registry) Register(a Adapter) error {
	if a == nil {
		return errors.NewConfigError("registries", "nil adapter", nil)
	}
	name := a.Name()
	if name == "" {
		return errors.NewConfigError("registries", "adapter has no name", nil)
	}
	if _, ok := r.adapters[name]; ok {
		return errors.NewConfigError("registries", "duplicate adapter: "+name, errors.ErrAlreadyExists)
	}
	r.adapters[name] = a
	return nil
}

// Get returns the adapter for name.
func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, errors.NewNotFoundError("registry", name)
	}
	return a, nil
}

// Names returns the registered adapter names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
