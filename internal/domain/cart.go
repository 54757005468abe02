package domain

// CartLine is one (item, quantity) entry in the cart draft.
// Quantity is always >= 1; a line at zero is deleted, never stored.
type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// CartSnapshot is a read-only copy of the draft in insertion order,
// with totals computed at read time.
type CartSnapshot struct {
	CanteenID   string     `json:"canteen_id,omitempty"`
	Lines       []CartLine `json:"lines"`
	ItemCount   int        `json:"item_count"`
	TotalAmount float64    `json:"total_amount"`
}

// IsEmpty reports whether the draft holds no lines. An empty draft is
// never bound to a canteen.
func (s CartSnapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}
