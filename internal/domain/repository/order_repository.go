package repository

import (
	"context"
	"errors"

	"mart/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is a domain-specific error returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the order store contract. Orders are append-only:
// there is no update operation by design.
type OrderRepository interface {
	// Create persists a new order row.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves a single order by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// ListByBuyer retrieves the buyer's order history joined with product
	// summaries, newest first.
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.BuyerOrder, error)

	// ListBySeller retrieves all orders placed against any of the seller's
	// products, joined with product and buyer summaries, newest first.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.SellerOrder, error)
}
