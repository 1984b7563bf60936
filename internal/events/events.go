// ABOUTME: Progress event stream decoupling the engine from presentation
// ABOUTME: Goroutine-safe pub/sub; handlers run synchronously, engine never blocks on display

package events

import "sync"

// Kind identifies a progress event type.
type Kind int

const (
	KindResolve  Kind = iota // identifier parsed, resolution starting
	KindClone                // mirror clone in progress
	KindFetch                // mirror fetch/prune in progress
	KindCheckout             // temporary working tree checkout
	KindCopy                 // filtered copy into the project
	KindImported             // one package import completed
	KindHarvest              // catalog metadata harvesting for one entry
	KindCatalog              // catalog index written
)

// String returns the event kind name used in logs and CLI output.
func (k Kind) String() string {
	switch k {
	case KindResolve:
		return "resolve"
	case KindClone:
		return "clone"
	case KindFetch:
		return "fetch"
	case KindCheckout:
		return "checkout"
	case KindCopy:
		return "copy"
	case KindImported:
		return "imported"
	case KindHarvest:
		return "harvest"
	case KindCatalog:
		return "catalog"
	default:
		return "unknown"
	}
}

// Event is one step of engine progress.
type Event struct {
	Kind    Kind
	Package string // package identifier, when the event concerns one
	Path    string // affected path (mirror, target, or index), when relevant
}

// Handler is a callback for events.
type Handler func(Event)

// Bus delivers engine progress events to registered handlers.
// A nil *Bus is valid and drops all events.
type Bus struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns an unsubscribe function.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish sends an event to all registered handlers.
// Handlers are called synchronously in arbitrary order.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	// Snapshot handlers to avoid holding the lock during callbacks.
	snapshot := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(e)
	}
}

// Count returns the number of registered handlers.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
