// Package store implements the schema store: the shared, read-mostly
// collection of registered service definitions.
package store

import (
	"iter"
	"sort"
	"sync"

	"github.com/vk/servicecore/internal/service"
)

// Store holds immutable service definitions keyed by (domain, name).
//
// Lookups take only shared access so concurrent readers never block each
// other; Register and Reload take exclusive access, so a reload waits for
// in-flight lookups and is never partially visible.
type Store struct {
	mu   sync.RWMutex
	defs map[string]*service.Definition
}

// New creates an empty Store.
func New() *Store {
	return &Store{defs: make(map[string]*service.Definition)}
}

// Register adds a definition. It fails with *DuplicateServiceError when the
// key is already present; use Reload for an explicit replace.
func (s *Store) Register(def *service.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := def.Key.String()
	if _, exists := s.defs[k]; exists {
		return &DuplicateServiceError{Key: def.Key}
	}
	s.defs[k] = def
	return nil
}

// Reload replaces (or adds) a definition atomically. Readers observe either
// the old definition or the new one, never a mixture.
func (s *Store) Reload(def *service.Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[def.Key.String()] = def
}

// Lookup returns the definition registered under (domain, name), or
// *UnknownServiceError. The returned definition is a read-only view; callers
// must not mutate it.
func (s *Store) Lookup(domain, name string) (*service.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.defs[service.Key{Domain: domain, Name: name}.String()]
	if !ok {
		return nil, &UnknownServiceError{Key: service.Key{Domain: domain, Name: name}}
	}
	return def, nil
}

// Len returns the number of registered services.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.defs)
}

// All returns a restartable sequence over the registered definitions in
// key order, for introspection and UI listings. The snapshot is taken when
// iteration starts, so a concurrent reload does not tear the sequence.
func (s *Store) All() iter.Seq[*service.Definition] {
	return func(yield func(*service.Definition) bool) {
		s.mu.RLock()
		snapshot := make([]*service.Definition, 0, len(s.defs))
		for _, def := range s.defs {
			snapshot = append(snapshot, def)
		}
		s.mu.RUnlock()

		sort.Slice(snapshot, func(i, j int) bool {
			return snapshot[i].Key.String() < snapshot[j].Key.String()
		})
		for _, def := range snapshot {
			if !yield(def) {
				return
			}
		}
	}
}
