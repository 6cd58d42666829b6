package directory_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/izniy/NexusBook/modules/directory"
)

func TestOverlayStore(t *testing.T) {
	o := directory.NewOverlayStore()

	if o.Get("a") {
		t.Error("unset id should default to false")
	}
	if !o.Toggle("a") {
		t.Error("first toggle should return true")
	}
	if o.Toggle("a") {
		t.Error("second toggle should return false")
	}

	o.Set("gone", true)
	if !o.Get("gone") {
		t.Error("expected set value to be readable")
	}
	o.Set("gone", false)
	if o.Get("gone") {
		t.Error("expected overwrite to false")
	}
	// entries are never removed, even when set back to false
	if o.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", o.Len())
	}
}

func TestOverlayStore_ConcurrentToggles(t *testing.T) {
	o := directory.NewOverlayStore()

	const ids = 10
	const perID = 100 // even, so every flag ends where it started
	var wg sync.WaitGroup
	for i := 0; i < ids; i++ {
		for j := 0; j < perID; j++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				o.Toggle(id)
			}(fmt.Sprintf("id-%d", i))
		}
	}
	wg.Wait()

	for i := 0; i < ids; i++ {
		if o.Get(fmt.Sprintf("id-%d", i)) {
			t.Errorf("id-%d: expected false after an even number of toggles", i)
		}
	}
	if o.Len() != ids {
		t.Errorf("expected %d entries, got %d", ids, o.Len())
	}
}
