package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	ItemAdded   EventType = "item_added"
	ItemUpdated EventType = "item_updated"
	ItemRemoved EventType = "item_removed"
	CartCleared EventType = "cart_cleared"
)

// CartEvent describes one committed cart mutation. Quantity is the line's
// quantity after the change, zero for removals and clears.
type CartEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId,omitempty"`
	Quantity   int       `json:"quantity"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewCartEvent(eventType EventType, userID, productID string, quantity int) CartEvent {
	return CartEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event CartEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CartEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
