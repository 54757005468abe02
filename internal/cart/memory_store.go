package cart

import (
	"sync"

	"github.com/gentleman753/campuseats/internal/domain"
)

// MemoryStore implements Store with in-memory storage. One instance
// holds the draft of a single session; the session manager owns the
// instance lifecycle.
type MemoryStore struct {
	mu        sync.RWMutex
	canteenID string                      // empty while the draft is empty
	lines     map[string]*domain.CartLine // itemID -> line
	order     []string                    // itemIDs in insertion order
	observers []func(domain.CartSnapshot)
}

// NewMemoryStore creates an empty, unbound cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lines: make(map[string]*domain.CartLine),
	}
}

func (s *MemoryStore) AddItem(item domain.MenuItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	if len(s.order) > 0 && item.CanteenID != s.canteenID {
		current := s.canteenID
		s.mu.Unlock()
		return &CanteenConflictError{
			CurrentCanteenID:   current,
			AttemptedCanteenID: item.CanteenID,
		}
	}

	if line, exists := s.lines[item.ID]; exists {
		line.Quantity += quantity
	} else {
		s.lines[item.ID] = &domain.CartLine{Item: item, Quantity: quantity}
		s.order = append(s.order, item.ID)
	}
	s.canteenID = item.CanteenID

	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

func (s *MemoryStore) RemoveItem(itemID string) {
	s.mu.Lock()
	if _, exists := s.lines[itemID]; exists {
		s.deleteLineLocked(itemID)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *MemoryStore) SetQuantity(itemID string, quantity int) error {
	s.mu.Lock()
	line, exists := s.lines[itemID]
	if !exists {
		s.mu.Unlock()
		return ErrLineNotFound
	}

	if quantity <= 0 {
		s.deleteLineLocked(itemID)
	} else {
		line.Quantity = quantity
	}

	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.lines = make(map[string]*domain.CartLine)
	s.order = nil
	s.canteenID = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *MemoryStore) Snapshot() domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *MemoryStore) Subscribe(fn func(domain.CartSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// deleteLineLocked removes the line and unbinds the canteen when the
// last line goes. Caller must hold the write lock.
func (s *MemoryStore) deleteLineLocked(itemID string) {
	delete(s.lines, itemID)
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if len(s.order) == 0 {
		s.canteenID = ""
	}
}

// snapshotLocked copies the draft and computes totals. Caller must
// hold at least the read lock.
func (s *MemoryStore) snapshotLocked() domain.CartSnapshot {
	snap := domain.CartSnapshot{
		CanteenID: s.canteenID,
		Lines:     make([]domain.CartLine, 0, len(s.order)),
	}
	for _, id := range s.order {
		line := *s.lines[id]
		snap.Lines = append(snap.Lines, line)
		snap.ItemCount += line.Quantity
		snap.TotalAmount += line.Item.Price * float64(line.Quantity)
	}
	return snap
}

// notify runs observers synchronously so the mutation is visible to
// them before the triggering call returns. Called without the lock
// held; observers may read the store.
func (s *MemoryStore) notify(snap domain.CartSnapshot) {
	s.mu.RLock()
	observers := make([]func(domain.CartSnapshot), len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(snap)
	}
}
