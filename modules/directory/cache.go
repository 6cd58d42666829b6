package directory

import (
	"sync"

	"github.com/izniy/NexusBook/common/model"
)

// snapshot is immutable once published; Replace builds a new one.
type snapshot struct {
	contacts []model.Contact
	index    map[string]int
}

// EntityCache holds the last fetched set of contacts.
type EntityCache struct {
	mu      sync.RWMutex
	current *snapshot
}

// NewEntityCache constructs an empty, unpopulated cache.
func NewEntityCache() *EntityCache {
	return &EntityCache{}
}

// IsEmpty reports whether the cache has never been populated. A cache
// replaced with an empty batch is populated.
func (c *EntityCache) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current == nil
}

// Replace swaps in a new snapshot built from contacts. When ids repeat the
// first occurrence wins. It returns the number of contacts kept.
func (c *EntityCache) Replace(contacts []model.Contact) int {
	next := &snapshot{
		contacts: make([]model.Contact, 0, len(contacts)),
		index:    make(map[string]int, len(contacts)),
	}
	for _, ct := range contacts {
		if _, dup := next.index[ct.ID]; dup {
			continue
		}
		next.index[ct.ID] = len(next.contacts)
		next.contacts = append(next.contacts, ct)
	}

	c.mu.Lock()
	c.current = next
	c.mu.Unlock()
	return len(next.contacts)
}

// All returns a copy of the current snapshot in fetch order.
//
// Callers can safely modify the returned slice without affecting the cache.
func (c *EntityCache) All() []model.Contact {
	s := c.load()
	if s == nil {
		return []model.Contact{}
	}
	cp := make([]model.Contact, len(s.contacts))
	copy(cp, s.contacts)
	return cp
}

// Find looks up a contact by id in the current snapshot.
func (c *EntityCache) Find(id string) (model.Contact, bool) {
	s := c.load()
	if s == nil {
		return model.Contact{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return model.Contact{}, false
	}
	return s.contacts[i], true
}

// Len returns the size of the current snapshot.
func (c *EntityCache) Len() int {
	s := c.load()
	if s == nil {
		return 0
	}
	return len(s.contacts)
}

func (c *EntityCache) load() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}
