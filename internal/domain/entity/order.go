package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order records a single completed purchase. Orders are created exactly
// once by the order placement flow and never mutated afterwards; the total
// price is frozen at placement time regardless of later product edits.
type Order struct {
	ID         uuid.UUID       // The Global Unique Identifier for the order.
	BuyerID    uuid.UUID       // The user who placed the order.
	ProductID  uuid.UUID       // Reference to the purchased product, not ownership.
	Quantity   int             // Number of units purchased, always > 0.
	Address    string          // Delivery address supplied by the buyer.
	TotalPrice decimal.Decimal // Unit price x quantity at the time of placement.
	CreatedAt  time.Time       // Set once on creation, immutable.
}

// BuyerOrder is the buyer-side read view: an order joined with the
// summary of its product.
type BuyerOrder struct {
	Order   Order
	Product ProductSummary
}

// SellerOrder is the seller-side read view: an order on one of the
// seller's products joined with product and buyer summaries.
type SellerOrder struct {
	Order   Order
	Product ProductSummary
	Buyer   BuyerSummary
}
