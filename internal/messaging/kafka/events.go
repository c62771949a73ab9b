package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События завершения операций над заказами
	EventTypeCreateSucceeded EventType = "order.create.succeeded"
	EventTypeCreateFailed    EventType = "order.create.failed"
	EventTypeListSucceeded   EventType = "order.list.succeeded"
	EventTypeListFailed      EventType = "order.list.failed"
	EventTypeFetchSucceeded  EventType = "order.fetch.succeeded"
	EventTypeFetchFailed     EventType = "order.fetch.failed"

	// Событие очистки корзины после успешного оформления
	EventTypeCartCleared EventType = "cart.cleared"
)

// Topics для Kafka
const (
	TopicOrderEvents = "buyzzie.order.events"
)

// SettlementEvent — событие завершения операции, публикуемое витриной.
type SettlementEvent struct {
	EventType EventType              `json:"event_type"`
	Operation string                 `json:"operation"`
	OrderID   string                 `json:"order_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewSettlementEvent создает новое событие завершения операции.
func NewSettlementEvent(eventType EventType, operation, orderID string, metadata map[string]interface{}) *SettlementEvent {
	return &SettlementEvent{
		EventType: eventType,
		Operation: operation,
		OrderID:   orderID,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
