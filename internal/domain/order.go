package domain

import "time"

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusCollected OrderStatus = "COLLECTED"
)

// OrderItem is one serialized cart line as submitted to the canteen.
type OrderItem struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is a placed order, built from the cart snapshot at submission
// time. TotalAmount is recomputed server side from the items.
type Order struct {
	ID          string      `json:"id"`
	SessionID   string      `json:"session_id"`
	CanteenID   string      `json:"canteen_id"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}
