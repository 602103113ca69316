package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item owned by exactly one seller.
// Price is exact decimal money; Stock is the remaining sellable quantity
// and is never allowed to go negative.
type Product struct {
	ID          uuid.UUID       // The Global Unique Identifier for the product.
	SellerID    uuid.UUID       // The user who owns this product; only the owner may mutate it.
	Name        string          // Display name of the product.
	Description string          // Free-form product description.
	Price       decimal.Decimal // Unit price; changed only by an explicit seller edit.
	Stock       int             // Remaining sellable quantity, always >= 0.
	ImageURL    string          // Public URL of the product image in object storage, may be empty.
	CreatedAt   time.Time       // Timestamp of when this product was created.
	UpdatedAt   time.Time       // Timestamp of the last modification to this product.
}

// ProductSummary is the minimal product snapshot attached to order views
// and notification events. The referenced product may be deleted after the
// order was placed, in which case the summary is all the reader gets.
type ProductSummary struct {
	ID   uuid.UUID
	Name string
}

// Summary returns the denormalized snapshot of this product.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{ID: p.ID, Name: p.Name}
}
