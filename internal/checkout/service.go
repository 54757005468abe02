package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gentleman753/campuseats/internal/domain"
	"github.com/google/uuid"
)

const EventTypeOrderPlaced = "order.placed"

var (
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrMissingIdempotencyKey = errors.New("idempotency_key is required")
)

// Service turns a cart snapshot into a placed order. The snapshot is
// the sole input from the cart side; the total is recomputed here so
// the client-reported figure is never trusted.
type Service struct {
	repo RepoInterface
}

func NewService(repo RepoInterface) *Service {
	return &Service{repo: repo}
}

func (s *Service) PlaceOrder(ctx context.Context, sessionID, idempotencyKey string, snap domain.CartSnapshot) (*domain.Order, error) {
	if idempotencyKey == "" {
		return nil, ErrMissingIdempotencyKey
	}
	if snap.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// Retry with the same key returns the already-placed order
	existingID, err := s.repo.GetOrderIDByIdempotencyKey(ctx, idempotencyKey)
	if err != nil && !errors.Is(err, ErrIdempotencyKeyNotFound) {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existingID != nil {
		log.Printf("Duplicate request detected idempotency_key %v with order_id %v", idempotencyKey, *existingID)
		return s.repo.GetOrderByID(ctx, *existingID)
	}

	order := buildOrder(sessionID, snap)

	payload, err := json.Marshal(map[string]interface{}{
		"order_id":     order.ID,
		"session_id":   order.SessionID,
		"canteen_id":   order.CanteenID,
		"items":        order.Items,
		"total_amount": order.TotalAmount,
		"placed_at":    order.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	event := &OutboxEvent{
		AggregateID: order.ID,
		EventType:   EventTypeOrderPlaced,
		Payload:     payload,
	}

	errCreate := s.repo.CreateOrderWithOutbox(ctx, order, idempotencyKey, event)
	if errors.Is(errCreate, ErrDuplicateOrder) {
		// Lost the race against a concurrent retry; surface its order
		raceID, e2 := s.repo.GetOrderIDByIdempotencyKey(ctx, idempotencyKey)
		if e2 != nil {
			return nil, fmt.Errorf("failed to resolve duplicate order: %w", e2)
		}
		return s.repo.GetOrderByID(ctx, *raceID)
	}
	if errCreate != nil {
		return nil, fmt.Errorf("failed to create order: %w", errCreate)
	}

	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, orderID)
}

// buildOrder serializes the snapshot into canteen id + ordered
// (item, quantity) pairs and recomputes the total from line prices.
func buildOrder(sessionID string, snap domain.CartSnapshot) *domain.Order {
	items := make([]domain.OrderItem, 0, len(snap.Lines))
	total := 0.0
	for _, line := range snap.Lines {
		subtotal := line.Item.Price * float64(line.Quantity)
		items = append(items, domain.OrderItem{
			ItemID:    line.Item.ID,
			Name:      line.Item.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Item.Price,
			Subtotal:  subtotal,
		})
		total += subtotal
	}

	return &domain.Order{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		CanteenID:   snap.CanteenID,
		Items:       items,
		TotalAmount: total,
		Status:      domain.OrderStatusPlaced,
		CreatedAt:   time.Now(),
	}
}
