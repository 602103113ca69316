package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel mirrors the 'products' table. The CHECK constraint on stock
// backs the never-negative invariant at the database level; the conditional
// decrement in the repository is what enforces it under concurrency.
type ProductModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"`
	ImageURL    string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Seller *UserModel `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
