package repository

import (
	"context"
	"errors"

	"mart/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product id does not reference an existing product.
var ErrProductNotFound = errors.New("product not found")

// ErrInsufficientStock is returned by DecrementStock when the remaining
// stock is smaller than the requested quantity. The check and the
// decrement are a single atomic storage operation; callers must never
// implement them as separate read-then-write steps.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository defines the catalog store contract.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListAll retrieves every product in the catalog, newest first.
	ListAll(ctx context.Context) ([]*entity.Product, error)

	// ListBySeller retrieves all products owned by the given seller, newest first.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Product, error)

	// Create persists a new product entity to the storage.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product entity in the storage.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product from the storage.
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically subtracts quantity from the product's stock,
	// succeeding only when the remaining stock covers the quantity
	// ("UPDATE ... SET stock = stock - q WHERE id = ? AND stock >= q").
	// Returns ErrProductNotFound or ErrInsufficientStock accordingly.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
