package postgres

import (
	"context"

	"mart/internal/domain/entity"
	domainerrors "mart/internal/domain/errors"
	"mart/internal/domain/repository"
	"mart/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the domain.OrderRepository interface using GORM.
// Orders are append-only; there is no Update or Delete.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists a new order row.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrOrderNotFound.WrapMessage("buyer or product does not exist")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrInvalidQuantity.WrapMessage("quantity must be positive")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt

	return nil
}

// FindByID retrieves a single order by its unique ID.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// ListByBuyer retrieves the buyer's purchase history, newest first,
// with the purchased product summarized alongside each order.
func (repo *orderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.BuyerOrder, error) {
	var orderMs []*model.OrderModel
	if err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders by buyer")
	}

	orders := make([]*entity.BuyerOrder, 0, len(orderMs))
	for _, orderM := range orderMs {
		orders = append(orders, &entity.BuyerOrder{
			Order:   *toOrderDomain(orderM),
			Product: toProductSummary(orderM.Product),
		})
	}

	return orders, nil
}

// ListBySeller retrieves incoming orders for all of the seller's products,
// newest first, with both the product and the buyer summarized.
func (repo *orderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.SellerOrder, error) {
	var orderMs []*model.OrderModel
	if err := repo.db.WithContext(ctx).
		Preload("Product").
		Preload("Buyer").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.seller_id = ?", sellerID).
		Order("orders.created_at DESC").
		Find(&orderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders by seller")
	}

	orders := make([]*entity.SellerOrder, 0, len(orderMs))
	for _, orderM := range orderMs {
		orders = append(orders, &entity.SellerOrder{
			Order:   *toOrderDomain(orderM),
			Product: toProductSummary(orderM.Product),
			Buyer:   toBuyerSummary(orderM.Buyer),
		})
	}

	return orders, nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	return &entity.Order{
		ID:         data.ID,
		BuyerID:    data.BuyerID,
		ProductID:  data.ProductID,
		Quantity:   data.Quantity,
		Address:    data.Address,
		TotalPrice: data.TotalPrice,
		CreatedAt:  data.CreatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel for persistence.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	return &model.OrderModel{
		ID:         data.ID,
		BuyerID:    data.BuyerID,
		ProductID:  data.ProductID,
		Quantity:   data.Quantity,
		Address:    data.Address,
		TotalPrice: data.TotalPrice,
	}
}

func toProductSummary(data *model.ProductModel) entity.ProductSummary {
	if data == nil {
		return entity.ProductSummary{}
	}

	return entity.ProductSummary{
		ID:   data.ID,
		Name: data.Name,
	}
}

func toBuyerSummary(data *model.UserModel) entity.BuyerSummary {
	if data == nil {
		return entity.BuyerSummary{}
	}

	return entity.BuyerSummary{
		ID:       data.ID,
		Username: data.Username,
	}
}
