package checkout

import (
	"context"

	"github.com/gentleman753/campuseats/internal/domain"
)

type MockRepository struct {
	ExistingOrderID *string
	GetKeyErr       error
	Orders          map[string]*domain.Order
	CreatedOrder    *domain.Order // Captures the order passed to CreateOrderWithOutbox
	CreatedKey      string
	CreatedEvent    *OutboxEvent
	CreateErr       error
	OutboxEvents    []*OutboxEvent
	ProcessedIDs    []int64
	EventsErr       error
}

func (m *MockRepository) GetOrderIDByIdempotencyKey(context.Context, string) (*string, error) {
	if m.GetKeyErr != nil {
		return nil, m.GetKeyErr
	}
	if m.ExistingOrderID == nil {
		return nil, ErrIdempotencyKeyNotFound
	}
	return m.ExistingOrderID, nil
}

func (m *MockRepository) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := m.Orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (m *MockRepository) CreateOrderWithOutbox(_ context.Context, order *domain.Order, key string, event *OutboxEvent) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.CreatedOrder = order
	m.CreatedKey = key
	m.CreatedEvent = event
	return nil
}

func (m *MockRepository) GetUnprocessedEvents(context.Context, int) ([]*OutboxEvent, error) {
	if m.EventsErr != nil {
		return nil, m.EventsErr
	}
	events := m.OutboxEvents
	m.OutboxEvents = nil // each event is returned once
	return events, nil
}

func (m *MockRepository) MarkEventAsProcessed(_ context.Context, id int64) error {
	m.ProcessedIDs = append(m.ProcessedIDs, id)
	return nil
}

func (m *MockRepository) RunMigrations(*Credentials) error {
	return nil
}

func (m *MockRepository) Close() error {
	return nil
}
