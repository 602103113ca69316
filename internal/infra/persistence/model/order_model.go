package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table. Rows are append-only; deletion
// only happens through the cascading foreign keys when the buyer or the
// product is removed.
type OrderModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BuyerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null;check:quantity > 0"`
	Address    string          `gorm:"type:text;not null"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CreatedAt  time.Time

	Buyer   *UserModel    `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE"`
	Product *ProductModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
