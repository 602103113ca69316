package memory

import (
	"context"
	"sort"

	"mart/internal/domain/entity"
	"mart/internal/domain/repository"

	"github.com/google/uuid"
)

type productRepository struct {
	store *Store
}

// NewProductRepository creates an in-memory product repository over the given store.
func NewProductRepository(store *Store) repository.ProductRepository {
	return &productRepository{store: store}
}

func (repo *productRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	product, ok := repo.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return cloneProduct(product), nil
}

func (repo *productRepository) ListAll(_ context.Context) ([]*entity.Product, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	products := make([]*entity.Product, 0, len(repo.store.products))
	for _, product := range repo.store.products {
		products = append(products, cloneProduct(product))
	}
	sortProductsNewestFirst(products)

	return products, nil
}

func (repo *productRepository) ListBySeller(_ context.Context, sellerID uuid.UUID) ([]*entity.Product, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	products := make([]*entity.Product, 0)
	for _, product := range repo.store.products {
		if product.SellerID == sellerID {
			products = append(products, cloneProduct(product))
		}
	}
	sortProductsNewestFirst(products)

	return products, nil
}

func (repo *productRepository) Create(_ context.Context, product *entity.Product) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = now()
	product.UpdatedAt = product.CreatedAt

	repo.store.products[product.ID] = cloneProduct(product)

	return nil
}

func (repo *productRepository) Update(_ context.Context, product *entity.Product) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	existing, ok := repo.store.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}

	updated := cloneProduct(product)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()
	repo.store.products[product.ID] = updated
	product.UpdatedAt = updated.UpdatedAt

	return nil
}

func (repo *productRepository) Delete(_ context.Context, id uuid.UUID) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, ok := repo.store.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(repo.store.products, id)

	return nil
}

// DecrementStock performs the check-and-decrement under the store lock so
// concurrent callers observe the same all-or-nothing semantics as the
// guarded SQL update.
func (repo *productRepository) DecrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	product, ok := repo.store.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if product.Stock < quantity {
		return repository.ErrInsufficientStock
	}

	updated := cloneProduct(product)
	updated.Stock -= quantity
	updated.UpdatedAt = now()
	repo.store.products[id] = updated

	return nil
}

func sortProductsNewestFirst(products []*entity.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}
