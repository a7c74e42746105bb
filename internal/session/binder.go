package session

import "sync"

// Binding ties one live connection to its room membership. It is set exactly
// once when a create or join succeeds and cleared when the connection ends;
// disconnect handling resolves it in O(1) instead of scanning the registry.
type Binding struct {
	PIN      string
	DeviceID string
	Nickname string
	IsOwner  bool
}

type Binder struct {
	mu     sync.RWMutex
	byConn map[string]Binding
}

func NewBinder() *Binder {
	return &Binder{
		byConn: make(map[string]Binding),
	}
}

func (b *Binder) Bind(connectionID string, binding Binding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byConn[connectionID] = binding
}

func (b *Binder) Resolve(connectionID string) (Binding, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	binding, ok := b.byConn[connectionID]
	return binding, ok
}

// Clear removes and returns the binding for a terminated connection. A
// connection with no binding has no room-related side effects on disconnect.
func (b *Binder) Clear(connectionID string) (Binding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	binding, ok := b.byConn[connectionID]
	if ok {
		delete(b.byConn, connectionID)
	}
	return binding, ok
}

func (b *Binder) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byConn)
}
