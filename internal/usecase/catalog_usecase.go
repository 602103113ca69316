package usecase

import (
	"context"

	"mart/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInput defines the seller-supplied fields of a product.
type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// ImageUpload carries the raw bytes of an uploaded product image.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CatalogUsecase defines the catalog store operations. Every mutation
// enforces that the caller owns the product.
type CatalogUsecase interface {
	// ListProducts returns the public catalog.
	ListProducts(ctx context.Context) ([]*entity.Product, error)

	// GetProduct returns a single product by id.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListSellerProducts returns the caller's own products.
	ListSellerProducts(ctx context.Context, caller Caller) ([]*entity.Product, error)

	// CreateProduct creates a product owned by the caller, uploading the
	// image (if any) to object storage first.
	CreateProduct(ctx context.Context, caller Caller, input *ProductInput, image *ImageUpload) (*entity.Product, error)

	// UpdateProduct edits a product the caller owns. A nil image keeps the
	// existing image URL.
	UpdateProduct(ctx context.Context, caller Caller, id uuid.UUID, input *ProductInput, image *ImageUpload) (*entity.Product, error)

	// DeleteProduct removes a product the caller owns along with its stored image.
	DeleteProduct(ctx context.Context, caller Caller, id uuid.UUID) error
}
