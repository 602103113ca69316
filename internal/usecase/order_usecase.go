package usecase

import (
	"context"

	"mart/internal/domain/entity"

	"github.com/google/uuid"
)

// PlaceOrderInput defines the data required to place an order.
type PlaceOrderInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required"`
	Address   string    `json:"address" validate:"required"`
}

// OrderUsecase defines order placement and the read-side order views.
type OrderUsecase interface {
	// PlaceOrder runs the pricing and stock engine: it validates the
	// caller's buyer role and the quantity, computes the exact decimal
	// total, atomically decrements stock and persists the order, then
	// dispatches a best-effort seller notification.
	PlaceOrder(ctx context.Context, caller Caller, input *PlaceOrderInput) (*entity.Order, error)

	// BuyerOrders returns the caller's own order history.
	BuyerOrders(ctx context.Context, caller Caller) ([]*entity.BuyerOrder, error)

	// SellerOrders returns all orders placed on the caller's products.
	SellerOrders(ctx context.Context, caller Caller) ([]*entity.SellerOrder, error)
}
