package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"mart/internal/domain/constants"
	"mart/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHTTPPublisher_PublishOrderPlaced(t *testing.T) {
	var received PubSubPushMessage
	var requestIDHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		requestIDHeader = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	event := &service.OrderPlacedEvent{
		RequestID:   "req-123",
		OrderID:     "order-1",
		ProductName: "Mechanical Keyboard",
		Quantity:    2,
		TotalPrice:  "19.98",
		SellerID:    "seller-1",
	}
	err := publisher.PublishOrderPlaced(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, "req-123", requestIDHeader)
	assert.Equal(t, constants.EventTypeOrderPlaced, received.Message.Attributes["event_type"])
	assert.Equal(t, "order-1", received.Message.Attributes["order_id"])
	assert.Equal(t, "req-123", received.Message.Attributes["request_id"])

	// The event travels base64-encoded in the push envelope
	decoded, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decodedEvent service.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(decoded, &decodedEvent))
	assert.Equal(t, "Mechanical Keyboard", decodedEvent.ProductName)
	assert.Equal(t, 2, decodedEvent.Quantity)
	assert.Equal(t, "19.98", decodedEvent.TotalPrice)
}

func TestLocalHTTPPublisher_PublishSellerRegistered(t *testing.T) {
	var received PubSubPushMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	err := publisher.PublishSellerRegistered(context.Background(), &service.SellerRegisteredEvent{
		SellerID:    "seller-9",
		SellerEmail: "seller@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, constants.EventTypeSellerRegistered, received.Message.Attributes["event_type"])
	assert.Equal(t, "seller-9", received.Message.Attributes["seller_id"])
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	err := publisher.PublishOrderPlaced(context.Background(), &service.OrderPlacedEvent{OrderID: "order-1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-success status")
}
