package session

import (
	"sync"

	"github.com/gentleman753/campuseats/internal/cart"
	"github.com/google/uuid"
)

// Manager owns one cart store per session. Stores are created lazily
// on first use and retired on logout or checkout completion, so the
// cart is lifecycle-scoped instead of an ambient singleton.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*cart.MemoryStore
}

func NewManager() *Manager {
	return &Manager{
		carts: make(map[string]*cart.MemoryStore),
	}
}

// NewSessionID mints an id for a fresh browser session.
func (m *Manager) NewSessionID() string {
	return uuid.New().String()
}

// Cart returns the session's cart store, creating an empty one on
// first use.
func (m *Manager) Cart(sessionID string) *cart.MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, exists := m.carts[sessionID]
	if !exists {
		store = cart.NewMemoryStore()
		m.carts[sessionID] = store
	}
	return store
}

// End retires the session's cart store. The next Cart call for the
// same id starts from an empty draft.
func (m *Manager) End(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
}
