package source

import (
	"fmt"
	"sort"
	"sync"

	"tileserv/internal/core/apperror"
)

// Registry is the single source of truth mapping source id to producer.
// Reads share an RLock and never block each other; Insert takes the write
// lock only for the duration of the map assignment. Go mutexes carry no
// poisoning semantics, so a failed writer cannot leave the registry unusable.
//
// Entries are never removed during the process lifetime.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// Build creates a registry from the startup source list. Duplicate ids are
// a configuration error: silently shadowing a source is a correctness
// hazard, so nothing is installed and the process must not start.
func Build(initial []Source) (*Registry, error) {
	sources := make(map[string]Source, len(initial))
	for _, src := range initial {
		id := src.ID()
		if _, exists := sources[id]; exists {
			return nil, apperror.NewConfiguration(
				fmt.Sprintf("duplicate source id %q in startup configuration", id))
		}
		sources[id] = src
	}
	return &Registry{sources: sources}, nil
}

// Lookup returns the producer registered under id.
func (r *Registry) Lookup(id string) (Source, error) {
	r.mu.RLock()
	src, ok := r.sources[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperror.NewSourceNotFound(id)
	}
	return src, nil
}

// Insert registers a producer under id, replacing any existing entry.
// Lookups that begin after Insert returns see the new producer; a lookup
// concurrent with Insert sees either the old or the new one.
func (r *Registry) Insert(id string, src Source) {
	r.mu.Lock()
	r.sources[id] = src
	r.mu.Unlock()
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

// IDs returns all registered source ids in lexicographic order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Catalog derives the public listing of all registered sources.
// encoding/json marshals map keys in lexicographic order, so repeated calls
// with unchanged registry state serialize byte-identically.
func (r *Registry) Catalog() map[string]CatalogEntry {
	r.mu.RLock()
	snapshot := make([]Source, 0, len(r.sources))
	for _, src := range r.sources {
		snapshot = append(snapshot, src)
	}
	r.mu.RUnlock()

	// Entries are derived outside the lock: TileJSON copies can be costly
	// and must not stall concurrent lookups.
	catalog := make(map[string]CatalogEntry, len(snapshot))
	for _, src := range snapshot {
		catalog[src.ID()] = NewCatalogEntry(src)
	}
	return catalog
}
