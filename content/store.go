package content

import "sync/atomic"

// Store publishes the current catalog to concurrent readers.
type Store struct {
	current atomic.Pointer[Content]
}

func NewStore(initial *Content) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Load returns the current catalog. Callers must not modify it.
func (s *Store) Load() *Content {
	return s.current.Load()
}

// Swap installs c and returns the catalog it replaced.
func (s *Store) Swap(c *Content) *Content {
	return s.current.Swap(c)
}
