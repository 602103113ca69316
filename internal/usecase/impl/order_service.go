// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "mart/internal/delivery/context"
	"mart/internal/domain/entity"
	domainerrors "mart/internal/domain/errors"
	"mart/internal/domain/repository"
	"mart/internal/domain/service"
	"mart/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// notifyTimeout bounds the fire-and-forget notification dispatch after an
// order commits. The placement response never waits on it.
const notifyTimeout = 10 * time.Second

// orderService implements the OrderUsecase interface. It is the only place
// where stock is mutated and orders are written.
type orderService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	publisher service.EventPublisher
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	OrderRepo repository.OrderRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService. It receives all dependencies as interfaces.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		orderRepo: params.OrderRepo,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder validates the request, then atomically decrements stock and
// persists the order in one transaction. Two concurrent placements on the
// same product serialize at the storage layer through the conditional
// decrement; either both writes commit or neither is visible.
func (srv *orderService) PlaceOrder(ctx context.Context, caller usecase.Caller, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if !caller.IsBuyer {
		return nil, domainerrors.ErrForbidden.WrapMessage("caller does not have the buyer role")
	}
	if input.Quantity <= 0 {
		return nil, domainerrors.ErrInvalidQuantity.WrapMessage("quantity must be a positive integer")
	}

	var (
		order   *entity.Order
		product *entity.Product
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		orderRepo := repoFactory.NewOrderRepository()

		found, err := productRepo.FindByID(ctx, input.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound.WrapMessage("product does not exist")
		}
		if err != nil {
			return errors.Wrap(err, "failed to load product for order placement")
		}

		// The decrement below re-checks under the transaction; this early
		// check only produces a friendlier failure without burning a write.
		if input.Quantity > found.Stock {
			return domainerrors.ErrInsufficientStock.WrapMessage("requested quantity exceeds available stock")
		}

		if err := productRepo.DecrementStock(ctx, found.ID, input.Quantity); err != nil {
			switch {
			case errors.Is(err, repository.ErrInsufficientStock):
				return domainerrors.ErrInsufficientStock.WrapMessage("stock changed concurrently")
			case errors.Is(err, repository.ErrProductNotFound):
				return domainerrors.ErrProductNotFound.WrapMessage("product disappeared during placement")
			default:
				return errors.Wrap(err, "failed to decrement stock")
			}
		}

		total := found.Price.Mul(decimal.NewFromInt(int64(input.Quantity)))
		newOrder := &entity.Order{
			BuyerID:    caller.ID,
			ProductID:  found.ID,
			Quantity:   input.Quantity,
			Address:    input.Address,
			TotalPrice: total,
		}
		if err := orderRepo.Create(ctx, newOrder); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		order = newOrder
		product = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order placement failed",
			slog.Any("buyerID", caller.ID),
			slog.Any("productID", input.ProductID),
			slog.Int("quantity", input.Quantity),
			slog.Any("error", err),
		)

		return nil, err
	}

	srv.log(ctx).Info("Order placed",
		slog.Any("orderID", order.ID),
		slog.Any("productID", product.ID),
		slog.Int("quantity", order.Quantity),
		slog.String("total", order.TotalPrice.String()),
	)

	// Notification dispatch happens after commit on its own execution path.
	// Failures here are logged and never surfaced to the buyer.
	go srv.dispatchOrderNotification(context.WithoutCancel(ctx), caller, order, product)

	return order, nil
}

// dispatchOrderNotification enriches the order with buyer and seller data
// and publishes the denormalized summary. Best-effort only.
func (srv *orderService) dispatchOrderNotification(ctx context.Context, caller usecase.Caller, order *entity.Order, product *entity.Product) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	event := &service.OrderPlacedEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:     order.ID.String(),
		ProductID:   product.ID.String(),
		ProductName: product.Name,
		Quantity:    order.Quantity,
		TotalPrice:  order.TotalPrice.String(),
		SellerID:    product.SellerID.String(),
		BuyerID:     caller.ID.String(),
	}

	if seller, err := srv.userRepo.FindByID(ctx, product.SellerID); err == nil {
		event.SellerEmail = seller.Email
	} else {
		srv.log(ctx).Warn("Failed to resolve seller for order notification", slog.Any("orderID", order.ID), slog.Any("error", err))
	}
	if buyer, err := srv.userRepo.FindByID(ctx, caller.ID); err == nil {
		event.BuyerUsername = buyer.Username
	} else {
		srv.log(ctx).Warn("Failed to resolve buyer for order notification", slog.Any("orderID", order.ID), slog.Any("error", err))
	}

	if err := srv.publisher.PublishOrderPlaced(ctx, event); err != nil {
		srv.log(ctx).Warn("Order notification dispatch failed",
			slog.Any("orderID", order.ID),
			slog.Any("error", err),
		)
	}
}

// BuyerOrders returns the caller's own order history with product summaries.
func (srv *orderService) BuyerOrders(ctx context.Context, caller usecase.Caller) ([]*entity.BuyerOrder, error) {
	if !caller.IsBuyer {
		return nil, domainerrors.ErrForbidden.WrapMessage("caller does not have the buyer role")
	}

	orders, err := srv.orderRepo.ListByBuyer(ctx, caller.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list buyer orders")
	}

	return orders, nil
}

// SellerOrders returns orders across all of the caller's products with
// product and buyer summaries.
func (srv *orderService) SellerOrders(ctx context.Context, caller usecase.Caller) ([]*entity.SellerOrder, error) {
	if !caller.IsSeller {
		return nil, domainerrors.ErrForbidden.WrapMessage("caller does not have the seller role")
	}

	orders, err := srv.orderRepo.ListBySeller(ctx, caller.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list seller orders")
	}

	return orders, nil
}
