package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"mart/internal/domain/entity"
	domainerrors "mart/internal/domain/errors"
	"mart/internal/domain/repository"
	"mart/internal/domain/service"
	"mart/internal/infra/persistence/memory"
	"mart/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPublisher collects published order events on a channel so tests can
// synchronize with the asynchronous notification dispatch.
type stubPublisher struct {
	orderEvents chan *service.OrderPlacedEvent
	publishErr  error
}

func newStubPublisher() *stubPublisher {
	return &stubPublisher{orderEvents: make(chan *service.OrderPlacedEvent, 4)}
}

func (p *stubPublisher) PublishOrderPlaced(_ context.Context, event *service.OrderPlacedEvent) error {
	p.orderEvents <- event

	return p.publishErr
}

func (p *stubPublisher) PublishSellerRegistered(_ context.Context, _ *service.SellerRegisteredEvent) error {
	return nil
}

func (p *stubPublisher) Close() error { return nil }

func (p *stubPublisher) waitForOrderEvent(t *testing.T) *service.OrderPlacedEvent {
	t.Helper()

	select {
	case event := <-p.orderEvents:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for order placed event")

		return nil
	}
}

// orderServiceFixtures wires the order service against the in-memory store so
// the transactional stock behavior is exercised for real.
type orderServiceFixtures struct {
	service     usecase.OrderUsecase
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	publisher   *stubPublisher

	buyer  *entity.User
	seller *entity.User
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	t.Helper()

	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	productRepo := memory.NewProductRepository(store)
	orderRepo := memory.NewOrderRepository(store)
	publisher := newStubPublisher()

	service := NewOrderService(OrderServiceParams{
		TxManager: memory.NewTransactionManager(store),
		UserRepo:  userRepo,
		OrderRepo: orderRepo,
		Publisher: publisher,
		Logger:    newDiscardLogger(),
	})

	ctx := context.Background()
	buyer := &entity.User{Username: "buyer-bob", Email: "bob@example.com", IsBuyer: true}
	require.NoError(t, userRepo.Create(ctx, buyer))
	seller := &entity.User{Username: "seller-sue", Email: "sue@example.com", IsSeller: true}
	require.NoError(t, userRepo.Create(ctx, seller))

	return orderServiceFixtures{
		service:     service,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
		buyer:       buyer,
		seller:      seller,
	}
}

func (fx orderServiceFixtures) seedProduct(t *testing.T, price string, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		SellerID: fx.seller.ID,
		Name:     "Mechanical Keyboard",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, fx.productRepo.Create(context.Background(), product))

	return product
}

func (fx orderServiceFixtures) buyerCaller() usecase.Caller {
	return usecase.CallerFromUser(fx.buyer)
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	product := fx.seedProduct(t, "9.99", 5)

	order, err := fx.service.PlaceOrder(ctx, fx.buyerCaller(), &usecase.PlaceOrderInput{
		ProductID: product.ID,
		Quantity:  2,
		Address:   "1 Main St",
	})

	require.NoError(t, err)
	assert.Equal(t, fx.buyer.ID, order.BuyerID)
	assert.Equal(t, product.ID, order.ProductID)
	assert.Equal(t, 2, order.Quantity)
	// 9.99 x 2 stays exact, no binary float drift.
	assert.Equal(t, "19.98", order.TotalPrice.String())

	remaining, err := fx.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining.Stock)

	event := fx.publisher.waitForOrderEvent(t)
	assert.Equal(t, order.ID.String(), event.OrderID)
	assert.Equal(t, "Mechanical Keyboard", event.ProductName)
	assert.Equal(t, 2, event.Quantity)
	assert.Equal(t, "19.98", event.TotalPrice)
	assert.Equal(t, fx.seller.ID.String(), event.SellerID)
	assert.Equal(t, "sue@example.com", event.SellerEmail)
	assert.Equal(t, fx.buyer.ID.String(), event.BuyerID)
	assert.Equal(t, "buyer-bob", event.BuyerUsername)
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	product := fx.seedProduct(t, "9.99", 3)

	order, err := fx.service.PlaceOrder(ctx, fx.buyerCaller(), &usecase.PlaceOrderInput{
		ProductID: product.ID,
		Quantity:  4,
		Address:   "1 Main St",
	})

	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))

	// The failed placement must leave the stock untouched.
	remaining, err := fx.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining.Stock)

	orders, err := fx.orderRepo.ListByBuyer(ctx, fx.buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_PlaceOrder_InvalidQuantity(t *testing.T) {
	fx := createTestOrderService(t)

	product := fx.seedProduct(t, "9.99", 3)

	for _, quantity := range []int{0, -1} {
		order, err := fx.service.PlaceOrder(context.Background(), fx.buyerCaller(), &usecase.PlaceOrderInput{
			ProductID: product.ID,
			Quantity:  quantity,
			Address:   "1 Main St",
		})

		require.Error(t, err)
		assert.Nil(t, order)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidQuantity))
	}
}

func TestOrderService_PlaceOrder_NonBuyerForbidden(t *testing.T) {
	fx := createTestOrderService(t)

	product := fx.seedProduct(t, "9.99", 3)

	order, err := fx.service.PlaceOrder(context.Background(), usecase.CallerFromUser(fx.seller), &usecase.PlaceOrderInput{
		ProductID: product.ID,
		Quantity:  1,
		Address:   "1 Main St",
	})

	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestOrderService_PlaceOrder_ProductNotFound(t *testing.T) {
	fx := createTestOrderService(t)

	order, err := fx.service.PlaceOrder(context.Background(), fx.buyerCaller(), &usecase.PlaceOrderInput{
		ProductID: uuid.New(),
		Quantity:  1,
		Address:   "1 Main St",
	})

	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestOrderService_PlaceOrder_ConcurrentLastUnit(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	product := fx.seedProduct(t, "49.00", 1)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := fx.service.PlaceOrder(ctx, fx.buyerCaller(), &usecase.PlaceOrderInput{
				ProductID: product.ID,
				Quantity:  1,
				Address:   "1 Main St",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, insufficient int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainerrors.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected placement error: %v", err)
		}
	}

	// The last unit can only be sold once.
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)

	remaining, err := fx.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining.Stock)

	orders, err := fx.orderRepo.ListByBuyer(ctx, fx.buyer.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	fx.publisher.waitForOrderEvent(t)
}

func TestOrderService_PlaceOrder_NotificationFailureDoesNotFailOrder(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	product := fx.seedProduct(t, "9.99", 5)
	fx.publisher.publishErr = errors.New("broker unavailable")

	order, err := fx.service.PlaceOrder(ctx, fx.buyerCaller(), &usecase.PlaceOrderInput{
		ProductID: product.ID,
		Quantity:  1,
		Address:   "1 Main St",
	})

	require.NoError(t, err)
	require.NotNil(t, order)

	fx.publisher.waitForOrderEvent(t)

	remaining, err := fx.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining.Stock)
}

func TestOrderService_BuyerOrders(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	product := fx.seedProduct(t, "12.50", 5)

	placed, err := fx.service.PlaceOrder(ctx, fx.buyerCaller(), &usecase.PlaceOrderInput{
		ProductID: product.ID,
		Quantity:  2,
		Address:   "1 Main St",
	})
	require.NoError(t, err)
	fx.publisher.waitForOrderEvent(t)

	orders, err := fx.service.BuyerOrders(ctx, fx.buyerCaller())

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].Order.ID)
	assert.Equal(t, "Mechanical Keyboard", orders[0].Product.Name)
	assert.Equal(t, "25", orders[0].Order.TotalPrice.String())
}

func TestOrderService_BuyerOrders_NonBuyerForbidden(t *testing.T) {
	fx := createTestOrderService(t)

	orders, err := fx.service.BuyerOrders(context.Background(), usecase.CallerFromUser(fx.seller))

	require.Error(t, err)
	assert.Nil(t, orders)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestOrderService_SellerOrders(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	product := fx.seedProduct(t, "9.99", 5)

	placed, err := fx.service.PlaceOrder(ctx, fx.buyerCaller(), &usecase.PlaceOrderInput{
		ProductID: product.ID,
		Quantity:  1,
		Address:   "1 Main St",
	})
	require.NoError(t, err)
	fx.publisher.waitForOrderEvent(t)

	orders, err := fx.service.SellerOrders(ctx, usecase.CallerFromUser(fx.seller))

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].Order.ID)
	assert.Equal(t, "Mechanical Keyboard", orders[0].Product.Name)
	assert.Equal(t, "buyer-bob", orders[0].Buyer.Username)
}

func TestOrderService_SellerOrders_NonSellerForbidden(t *testing.T) {
	fx := createTestOrderService(t)

	orders, err := fx.service.SellerOrders(context.Background(), fx.buyerCaller())

	require.Error(t, err)
	assert.Nil(t, orders)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}
