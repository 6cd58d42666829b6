package directory

import "sync"

// OverlayStore keeps favorite flags keyed by contact id. Its lifetime is
// independent of the cache: entries survive reloads and are never removed,
// including entries for ids that a reload dropped.
type OverlayStore struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewOverlayStore constructs an empty overlay.
func NewOverlayStore() *OverlayStore {
	return &OverlayStore{flags: make(map[string]bool)}
}

// Get returns the flag for id, false when unset.
func (o *OverlayStore) Get(id string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.flags[id]
}

// Toggle flips the flag for id and returns the new value.
func (o *OverlayStore) Toggle(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	v := !o.flags[id]
	o.flags[id] = v
	return v
}

// Set stores value for id.
func (o *OverlayStore) Set(id string, value bool) {
	o.mu.Lock()
	o.flags[id] = value
	o.mu.Unlock()
}

// Len returns the number of ids that have ever been flagged.
func (o *OverlayStore) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.flags)
}
