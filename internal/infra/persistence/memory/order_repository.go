package memory

import (
	"context"
	"sort"

	"mart/internal/domain/entity"
	"mart/internal/domain/repository"

	"github.com/google/uuid"
)

type orderRepository struct {
	store *Store
}

// NewOrderRepository creates an in-memory order repository over the given store.
func NewOrderRepository(store *Store) repository.OrderRepository {
	return &orderRepository{store: store}
}

func (repo *orderRepository) Create(_ context.Context, order *entity.Order) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = now()

	repo.store.orders[order.ID] = cloneOrder(order)

	return nil
}

func (repo *orderRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	order, ok := repo.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	return cloneOrder(order), nil
}

func (repo *orderRepository) ListByBuyer(_ context.Context, buyerID uuid.UUID) ([]*entity.BuyerOrder, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	orders := make([]*entity.BuyerOrder, 0)
	for _, order := range repo.store.orders {
		if order.BuyerID != buyerID {
			continue
		}

		view := &entity.BuyerOrder{Order: *cloneOrder(order)}
		if product, ok := repo.store.products[order.ProductID]; ok {
			view.Product = product.Summary()
		}
		orders = append(orders, view)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Order.CreatedAt.After(orders[j].Order.CreatedAt)
	})

	return orders, nil
}

func (repo *orderRepository) ListBySeller(_ context.Context, sellerID uuid.UUID) ([]*entity.SellerOrder, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	orders := make([]*entity.SellerOrder, 0)
	for _, order := range repo.store.orders {
		product, ok := repo.store.products[order.ProductID]
		if !ok || product.SellerID != sellerID {
			continue
		}

		view := &entity.SellerOrder{
			Order:   *cloneOrder(order),
			Product: product.Summary(),
		}
		if buyer, ok := repo.store.users[order.BuyerID]; ok {
			view.Buyer = entity.BuyerSummary{ID: buyer.ID, Username: buyer.Username}
		}
		orders = append(orders, view)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Order.CreatedAt.After(orders[j].Order.CreatedAt)
	})

	return orders, nil
}
