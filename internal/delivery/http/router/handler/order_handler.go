package handler

import (
	"log/slog"
	"net/http"
	"time"

	"mart/internal/delivery/http/response"
	"mart/internal/domain/entity"
	"mart/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// orderView is the API projection of an order.
type orderView struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int       `json:"quantity"`
	Address    string    `json:"address"`
	TotalPrice string    `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

func toOrderView(order *entity.Order) orderView {
	return orderView{
		ID:         order.ID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		Address:    order.Address,
		TotalPrice: order.TotalPrice.StringFixed(2),
		CreatedAt:  order.CreatedAt,
	}
}

type buyerOrderView struct {
	orderView
	ProductName string `json:"product_name"`
}

type sellerOrderView struct {
	orderView
	ProductName   string `json:"product_name"`
	BuyerUsername string `json:"buyer_username"`
}

// OrderHandler holds dependencies for order-related handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: logger,
	}
}

// PlaceOrder handles the order placement request.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	caller, ok := callerFromEchoContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input usecase.PlaceOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	order, err := h.uc.PlaceOrder(c.Request().Context(), caller, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toOrderView(order), "Order placed successfully")
}

// ListBuyerOrders handles the buyer's purchase history request.
func (h *OrderHandler) ListBuyerOrders(c echo.Context) error {
	caller, ok := callerFromEchoContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orders, err := h.uc.BuyerOrders(c.Request().Context(), caller)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]buyerOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, buyerOrderView{
			orderView:   toOrderView(&order.Order),
			ProductName: order.Product.Name,
		})
	}

	return response.Success(c, http.StatusOK, views, "Orders retrieved successfully")
}

// ListSellerOrders handles the seller's incoming order listing.
func (h *OrderHandler) ListSellerOrders(c echo.Context) error {
	caller, ok := callerFromEchoContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orders, err := h.uc.SellerOrders(c.Request().Context(), caller)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]sellerOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, sellerOrderView{
			orderView:     toOrderView(&order.Order),
			ProductName:   order.Product.Name,
			BuyerUsername: order.Buyer.Username,
		})
	}

	return response.Success(c, http.StatusOK, views, "Orders retrieved successfully")
}
