package checkout

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gentleman753/campuseats/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func newTestOrder() *domain.Order {
	return &domain.Order{
		ID:        uuid.New().String(),
		SessionID: "sess-123",
		CanteenID: "c1",
		Items: []domain.OrderItem{
			{ItemID: "i1", Name: "Masala Dosa", Quantity: 2, UnitPrice: 50, Subtotal: 100},
			{ItemID: "i2", Name: "Filter Coffee", Quantity: 1, UnitPrice: 30, Subtotal: 30},
		},
		TotalAmount: 130,
		Status:      domain.OrderStatusPlaced,
		CreatedAt:   time.Now(),
	}
}

func newTestEvent(order *domain.Order) *OutboxEvent {
	payload, _ := json.Marshal(map[string]interface{}{
		"order_id":     order.ID,
		"canteen_id":   order.CanteenID,
		"total_amount": order.TotalAmount,
	})
	return &OutboxEvent{
		AggregateID: order.ID,
		EventType:   EventTypeOrderPlaced,
		Payload:     payload,
	}
}

func TestCreateOrderWithOutbox_RoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder()

	err := repo.CreateOrderWithOutbox(ctx, order, "key-1", newTestEvent(order))
	require.NoError(t, err)

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, "c1", got.CanteenID)
	assert.Equal(t, 130.0, got.TotalAmount)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "i1", got.Items[0].ItemID)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestCreateOrderWithOutbox_DuplicateKey(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	first := newTestOrder()
	require.NoError(t, repo.CreateOrderWithOutbox(ctx, first, "key-1", newTestEvent(first)))

	second := newTestOrder()
	err := repo.CreateOrderWithOutbox(ctx, second, "key-1", newTestEvent(second))
	assert.ErrorIs(t, err, ErrDuplicateOrder)

	// The duplicate transaction left no outbox event behind
	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestGetOrderIDByIdempotencyKey(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder()
	require.NoError(t, repo.CreateOrderWithOutbox(ctx, order, "key-1", newTestEvent(order)))

	id, err := repo.GetOrderIDByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, *id)

	_, err = repo.GetOrderIDByIdempotencyKey(ctx, "unknown-key")
	assert.ErrorIs(t, err, ErrIdempotencyKeyNotFound)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrderByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOutboxEvents_MarkProcessed(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder()
	require.NoError(t, repo.CreateOrderWithOutbox(ctx, order, "key-1", newTestEvent(order)))

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, order.ID, events[0].AggregateID)
	assert.Equal(t, EventTypeOrderPlaced, events[0].EventType)

	require.NoError(t, repo.MarkEventAsProcessed(ctx, events[0].ID))

	events, err = repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
