package cart

import (
	"errors"
	"fmt"

	"github.com/gentleman753/campuseats/internal/domain"
)

// Common errors returned by the store
var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("item not in cart")
)

// CanteenConflictError is returned when an addition would mix items
// from two canteens in one draft. The store never resolves the
// conflict itself: the caller confirms with the user, then calls
// Clear followed by a fresh AddItem.
type CanteenConflictError struct {
	CurrentCanteenID   string
	AttemptedCanteenID string
}

func (e *CanteenConflictError) Error() string {
	return fmt.Sprintf("cart holds items from canteen %s, cannot add item from canteen %s",
		e.CurrentCanteenID, e.AttemptedCanteenID)
}

// Store defines the cart draft operations exposed to the HTTP layer.
type Store interface {
	// AddItem binds an empty cart to the item's canteen and inserts the
	// line, or merges quantity into an existing line. Returns
	// *CanteenConflictError without mutating when the item belongs to a
	// different canteen than the one the cart is bound to.
	AddItem(item domain.MenuItem, quantity int) error

	// RemoveItem deletes the line if present, no-op otherwise. Removing
	// the last line unbinds the canteen.
	RemoveItem(itemID string)

	// SetQuantity overwrites the line's quantity. A quantity <= 0
	// behaves as RemoveItem. Returns ErrLineNotFound for unknown lines.
	SetQuantity(itemID string, quantity int) error

	// Clear empties the draft. Always succeeds, idempotent.
	Clear()

	// Snapshot returns a fresh copy of the draft with totals computed.
	Snapshot() domain.CartSnapshot

	// Subscribe registers an observer called with the post-mutation
	// snapshot before each mutating call returns.
	Subscribe(fn func(domain.CartSnapshot))
}
