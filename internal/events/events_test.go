// ABOUTME: Tests for the progress event bus
// ABOUTME: Covers subscribe, publish, unsubscribe, and nil-bus safety

package events

import (
	"sync"
	"testing"
)

func TestBus_PublishSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var received Event

	bus.Subscribe(func(e Event) {
		received = e
	})

	bus.Publish(Event{Kind: KindClone, Package: "myorg/adr-node"})

	if received.Kind != KindClone {
		t.Errorf("Kind = %v; want KindClone", received.Kind)
	}
	if received.Package != "myorg/adr-node" {
		t.Errorf("Package = %q; want %q", received.Package, "myorg/adr-node")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var count int
	var mu sync.Mutex

	for range 3 {
		bus.Subscribe(func(Event) {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	bus.Publish(Event{Kind: KindFetch})

	mu.Lock()
	defer mu.Unlock()
	if count != 3 {
		t.Errorf("count = %d; want 3", count)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	called := false

	unsub := bus.Subscribe(func(Event) {
		called = true
	})
	unsub()

	bus.Publish(Event{Kind: KindCopy})

	if called {
		t.Error("handler called after unsubscribe")
	}
	if bus.Count() != 0 {
		t.Errorf("Count = %d; want 0", bus.Count())
	}
}

func TestBus_NilSafePublish(t *testing.T) {
	t.Parallel()

	var bus *Bus
	bus.Publish(Event{Kind: KindImported}) // must not panic
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindResolve, "resolve"},
		{KindClone, "clone"},
		{KindFetch, "fetch"},
		{KindCheckout, "checkout"},
		{KindCopy, "copy"},
		{KindImported, "imported"},
		{KindHarvest, "harvest"},
		{KindCatalog, "catalog"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q; want %q", tt.kind, got, tt.want)
		}
	}
}
