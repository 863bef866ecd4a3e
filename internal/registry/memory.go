package registry

import (
	"sync"
	"time"

	"github.com/EOPeakDesigns/applink/internal/domain"
)

// Index provides in-memory storage and lookup for platform specs.
// It is seeded with the builtin defaults and acts as the single source
// the resolver reads from; file and Redis inputs are merged into it.
type Index struct {
	mu         sync.RWMutex
	specs      map[domain.Platform]*domain.PlatformSpec
	lastReload time.Time
}

// NewIndex creates an index seeded with the builtin defaults.
func NewIndex() *Index {
	idx := &Index{specs: make(map[domain.Platform]*domain.PlatformSpec)}
	for _, s := range Defaults() {
		idx.specs[s.ID] = s
	}
	return idx
}

// Apply merges specs into the index, overriding any existing entry
// with the same platform ID.
func (idx *Index) Apply(specs []*domain.PlatformSpec) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, s := range specs {
		idx.specs[s.ID] = s
	}
	idx.lastReload = time.Now()
}

// Get retrieves the spec for a platform.
func (idx *Index) Get(p domain.Platform) (*domain.PlatformSpec, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	spec, ok := idx.specs[p]
	return spec, ok
}

// All returns every registered spec.
func (idx *Index) All() []*domain.PlatformSpec {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	specs := make([]*domain.PlatformSpec, 0, len(idx.specs))
	for _, s := range idx.specs {
		specs = append(specs, s)
	}
	return specs
}

// Count returns the number of registered platforms.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.specs)
}

// LastReload returns the timestamp of the last Apply, zero if the
// index still holds only the builtin defaults.
func (idx *Index) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
