package impl

import (
	"context"
	"testing"

	"mart/internal/domain/entity"
	domainerrors "mart/internal/domain/errors"
	"mart/internal/domain/repository"
	mockRepo "mart/internal/mocks/repository"
	mockSvc "mart/internal/mocks/service"
	"mart/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// orderServiceMockFixtures drives the order service with mocks for the
// failure paths the in-memory store cannot produce.
type orderServiceMockFixtures struct {
	service   usecase.OrderUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	orderRepo *mockRepo.MockOrderRepository
	publisher *mockSvc.MockEventPublisher
}

func createMockedOrderService(t *testing.T) orderServiceMockFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	service := NewOrderService(OrderServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		OrderRepo: orderRepo,
		Publisher: publisher,
		Logger:    newDiscardLogger(),
	})

	return orderServiceMockFixtures{
		service:   service,
		txManager: txManager,
		userRepo:  userRepo,
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

func TestOrderService_PlaceOrder_TransactionFailure(t *testing.T) {
	fx := createMockedOrderService(t)

	ctx := context.Background()
	caller := usecase.Caller{ID: uuid.New(), IsBuyer: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Return(errors.New("begin transaction: connection refused"))

	order, err := fx.service.PlaceOrder(ctx, caller, &usecase.PlaceOrderInput{
		ProductID: uuid.New(),
		Quantity:  1,
		Address:   "1 Main St",
	})

	require.Error(t, err)
	assert.Nil(t, order)
}

func TestOrderService_PlaceOrder_StockChangedConcurrently(t *testing.T) {
	fx := createMockedOrderService(t)

	ctx := context.Background()
	caller := usecase.Caller{ID: uuid.New(), IsBuyer: true}
	productID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewOrderRepository().Return(mockOrderRepo)

			// The read sees enough stock but the decrement loses the race.
			mockProductRepo.EXPECT().
				FindByID(ctx, productID).
				Return(&entity.Product{
					ID:    productID,
					Name:  "Mechanical Keyboard",
					Price: decimal.RequireFromString("9.99"),
					Stock: 2,
				}, nil)

			mockProductRepo.EXPECT().
				DecrementStock(ctx, productID, 2).
				Return(repository.ErrInsufficientStock)

			return fn(mockFactory)
		})

	order, err := fx.service.PlaceOrder(ctx, caller, &usecase.PlaceOrderInput{
		ProductID: productID,
		Quantity:  2,
		Address:   "1 Main St",
	})

	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))
}

func TestOrderService_PlaceOrder_ProductVanishedDuringPlacement(t *testing.T) {
	fx := createMockedOrderService(t)

	ctx := context.Background()
	caller := usecase.Caller{ID: uuid.New(), IsBuyer: true}
	productID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewOrderRepository().Return(mockOrderRepo)

			mockProductRepo.EXPECT().
				FindByID(ctx, productID).
				Return(&entity.Product{
					ID:    productID,
					Name:  "Mechanical Keyboard",
					Price: decimal.RequireFromString("9.99"),
					Stock: 2,
				}, nil)

			mockProductRepo.EXPECT().
				DecrementStock(ctx, productID, 1).
				Return(repository.ErrProductNotFound)

			return fn(mockFactory)
		})

	order, err := fx.service.PlaceOrder(ctx, caller, &usecase.PlaceOrderInput{
		ProductID: productID,
		Quantity:  1,
		Address:   "1 Main St",
	})

	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestOrderService_PlaceOrder_OrderWriteFailureRollsBack(t *testing.T) {
	fx := createMockedOrderService(t)

	ctx := context.Background()
	caller := usecase.Caller{ID: uuid.New(), IsBuyer: true}
	productID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewOrderRepository().Return(mockOrderRepo)

			mockProductRepo.EXPECT().
				FindByID(ctx, productID).
				Return(&entity.Product{
					ID:    productID,
					Name:  "Mechanical Keyboard",
					Price: decimal.RequireFromString("9.99"),
					Stock: 2,
				}, nil)

			mockProductRepo.EXPECT().DecrementStock(ctx, productID, 1).Return(nil)

			mockOrderRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Order")).
				Return(errors.New("insert order: connection reset"))

			return fn(mockFactory)
		})

	order, err := fx.service.PlaceOrder(ctx, caller, &usecase.PlaceOrderInput{
		ProductID: productID,
		Quantity:  1,
		Address:   "1 Main St",
	})

	require.Error(t, err)
	assert.Nil(t, order)
}
