package cart

import "sync"

// Manager hands out carts keyed by visitor id. Carts live in memory for the
// lifetime of the process; the checkout flow is the only consumer that needs
// them to survive longer, and it re-validates prices upstream anyway.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Cart)}
}

// Get returns the visitor's cart, creating it on first use.
func (m *Manager) Get(visitorID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[visitorID]
	if !ok {
		c = &Cart{}
		m.carts[visitorID] = c
	}
	return c
}

// Drop discards a visitor's cart, used after a completed checkout.
func (m *Manager) Drop(visitorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, visitorID)
}
