package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gentleman753/campuseats/internal/checkout"
	"github.com/gentleman753/campuseats/internal/domain"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

type MockRepository struct {
	OutboxEvents []*checkout.OutboxEvent
	EventsErr    error
	ProcessedID  int64
	MarkErr      error
}

func (m *MockRepository) GetOrderIDByIdempotencyKey(context.Context, string) (*string, error) {
	return nil, checkout.ErrIdempotencyKeyNotFound
}

func (m *MockRepository) GetOrderByID(context.Context, string) (*domain.Order, error) {
	return nil, checkout.ErrOrderNotFound
}

func (m *MockRepository) CreateOrderWithOutbox(context.Context, *domain.Order, string, *checkout.OutboxEvent) error {
	return nil
}

func (m *MockRepository) GetUnprocessedEvents(context.Context, int) ([]*checkout.OutboxEvent, error) {
	if m.EventsErr != nil {
		return nil, m.EventsErr
	}
	if len(m.OutboxEvents) > 0 {
		ev := []*checkout.OutboxEvent{m.OutboxEvents[0]} // Return first event once
		m.OutboxEvents = []*checkout.OutboxEvent{}
		return ev, nil
	}
	return m.OutboxEvents, nil
}

func (m *MockRepository) MarkEventAsProcessed(_ context.Context, id int64) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.ProcessedID = id
	return nil
}

func (m *MockRepository) RunMigrations(*checkout.Credentials) error {
	return nil
}

func (m *MockRepository) Close() error {
	return nil
}

func setupKafka(t *testing.T) (string, func()) {
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	topicConfigs := []kafkaGo.TopicConfig{{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}}

	err = controllerConn.CreateTopics(topicConfigs...)
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestOutboxPoller_PublishesEventsToKafka(t *testing.T) {
	brokerAddr, cleanup := setupKafka(t)
	defer cleanup()

	createTopic(t, brokerAddr, "orders-outbox")

	// Give Kafka time to fully initialize the topic
	time.Sleep(5 * time.Second)

	mockRepo := &MockRepository{
		OutboxEvents: []*checkout.OutboxEvent{
			{
				ID:          1,
				AggregateID: "order-123",
				EventType:   checkout.EventTypeOrderPlaced,
				Payload:     json.RawMessage(`{"order_id":"order-123","canteen_id":"c1","total_amount":130}`),
				CreatedAt:   time.Now(),
			},
		},
	}

	writer := &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(brokerAddr),
		Topic:        "orders-outbox",
		Balancer:     &kafkaGo.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	defer writer.Close()

	poller := &OutboxPoller{
		timeout:   5 * time.Second,
		eventTick: 1 * time.Second,
		repo:      mockRepo,
		writer:    writer,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	go poller.Run(ctx)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  []string{brokerAddr},
		Topic:    "orders-outbox",
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	assert.Equal(t, "order-123", string(msg.Key))

	var payload map[string]interface{}
	err = json.Unmarshal(msg.Value, &payload)
	require.NoError(t, err)

	assert.Equal(t, "order-123", payload["order_id"])
	assert.Equal(t, "c1", payload["canteen_id"])

	// Verify event was marked as processed
	assert.Equal(t, int64(1), mockRepo.ProcessedID)
}

func TestProcessUnpublishedEvents_FetchError(t *testing.T) {
	mockRepo := &MockRepository{
		EventsErr: errors.New("database connection error"),
	}

	poller := NewOutboxPoller(mockRepo)

	// Should not panic, just log error and return
	poller.processUnpublishedEvents(context.Background())

	assert.Equal(t, int64(0), mockRepo.ProcessedID)
}

func TestProcessUnpublishedEvents_EmptyBatch(t *testing.T) {
	mockRepo := &MockRepository{}

	poller := NewOutboxPoller(mockRepo)
	poller.processUnpublishedEvents(context.Background())

	assert.Equal(t, int64(0), mockRepo.ProcessedID)
}
