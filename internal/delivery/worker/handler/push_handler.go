// Package handler contains the Pub/Sub push handlers for the worker.
package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"mart/config"
	deliverycontext "mart/internal/delivery/context"
	"mart/internal/domain/constants"
	"mart/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// PushHandler handles Pub/Sub push messages carrying order and registration events
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Determine if we need to verify push auth based on config
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	// Verify Pub/Sub token in production for Google provider
	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	// Parse Pub/Sub message
	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Decode base64 message data
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Extract request_id for distributed tracing
	requestID := h.extractRequestID(&pushMsg)

	// Create request-scoped logger with request_id
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)
	c.SetRequest(c.Request().WithContext(ctx))

	eventType := pushMsg.Message.Attributes["event_type"]

	// Events are delivered at-least-once. Processing is idempotent (a repeated
	// notification is harmless), so malformed payloads ack with 200 to avoid
	// poison-message retry loops.
	switch eventType {
	case constants.EventTypeOrderPlaced:
		err = h.handleOrderPlaced(reqLogger, data)
	case constants.EventTypeSellerRegistered:
		err = h.handleSellerRegistered(reqLogger, data)
	default:
		reqLogger.Warn("[Worker] Unknown event type, acking",
			slog.String("event_type", eventType),
			slog.String("message_id", pushMsg.Message.MessageID),
		)

		return c.NoContent(http.StatusOK)
	}

	if err != nil {
		reqLogger.Error("[Worker] Failed to process event",
			slog.String("event_type", eventType),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// handleOrderPlaced delivers the seller's new-order notification. Delivery is
// a structured log line; a mail or push gateway can replace it without
// touching the event plumbing.
func (h *PushHandler) handleOrderPlaced(logger *slog.Logger, data []byte) error {
	var event service.OrderPlacedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return errors.WithStack(err)
	}

	subject := fmt.Sprintf("您有新訂單:%s x%d", event.ProductName, event.Quantity)
	body := fmt.Sprintf("買家 %s 訂購了 %s,數量 %d,總金額 %s。",
		event.BuyerUsername, event.ProductName, event.Quantity, event.TotalPrice)

	logger.Info("[Worker] Seller order notification",
		slog.String("order_id", event.OrderID),
		slog.String("seller_id", event.SellerID),
		slog.String("seller_email", event.SellerEmail),
		slog.String("subject", subject),
		slog.String("body", body),
	)

	return nil
}

// handleSellerRegistered records the seller's enrollment into order notifications.
func (h *PushHandler) handleSellerRegistered(logger *slog.Logger, data []byte) error {
	var event service.SellerRegisteredEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return errors.WithStack(err)
	}

	logger.Info("[Worker] Seller subscribed to order notifications",
		slog.String("seller_id", event.SellerID),
		slog.String("seller_email", event.SellerEmail),
	)

	return nil
}

// extractRequestID extracts request_id from message attributes or generates a new one
func (h *PushHandler) extractRequestID(pushMsg *PubSubMessage) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	// Get the Authorization header
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	// Extract Bearer token
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// Construct the expected audience (the push endpoint URL)
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	// Validate the token using Google's ID token validator
	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	// Verify the token is from Google Pub/Sub
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	// Verify email is verified (if email claim exists)
	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
