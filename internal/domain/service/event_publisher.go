package service

import (
	"context"
)

// OrderPlacedEvent is the denormalized order summary delivered to the
// notification topic after a successful placement. TotalPrice is the exact
// decimal string, never a binary float.
type OrderPlacedEvent struct {
	RequestID     string `json:"request_id,omitempty"` // For distributed tracing
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	TotalPrice    string `json:"total_price"`
	SellerID      string `json:"seller_id"`
	SellerEmail   string `json:"seller_email"`
	BuyerID       string `json:"buyer_id"`
	BuyerUsername string `json:"buyer_username"`
}

// SellerRegisteredEvent announces a new seller so the notification side can
// subscribe the seller's email to its delivery channel.
type SellerRegisteredEvent struct {
	RequestID   string `json:"request_id,omitempty"`
	SellerID    string `json:"seller_id"`
	SellerEmail string `json:"seller_email"`
}

// EventPublisher defines the interface for publishing events to a message queue.
// Delivery is best-effort: publish failures must never fail the business
// operation that produced the event.
type EventPublisher interface {
	// PublishOrderPlaced publishes an order summary for async seller notification.
	PublishOrderPlaced(ctx context.Context, event *OrderPlacedEvent) error

	// PublishSellerRegistered publishes a seller registration for email subscription.
	PublishSellerRegistered(ctx context.Context, event *SellerRegisteredEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
