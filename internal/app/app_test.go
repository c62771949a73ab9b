package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/app"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/cart"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/domain"
)

// Сквозной сценарий: оформление заказа через собранное приложение
// обновляет хранилище заказов и опустошает корзину.
func TestApp_CreateOrderFlow(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders", r.URL.Path)

		var draft domain.OrderDraft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"order": map[string]interface{}{
				"id":     "o1",
				"status": "pending",
				"total":  draft.Total,
			},
		})
	}))
	defer backend.Close()

	cfg := app.Config{
		BackendURL:     backend.URL,
		RequestTimeout: 5 * time.Second,
		MetricsAddr:    ":0",
	}
	application := app.New(cfg, nil)

	application.Cart.Add(cart.Item{ProductID: "p1", Qty: 2, Price: decimal.NewFromInt(10)})
	draft := application.Cart.Draft("some street 1", "card")
	require.Empty(t, draft.Validate())

	created, err := application.Orders.CreateOrder(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, "o1", created.ID)

	current, ok := application.Store.CurrentOrder()
	require.True(t, ok)
	require.Equal(t, "o1", current.ID)
	require.False(t, application.Store.Loading())

	// Успешное оформление не оставляет устаревшую корзину.
	require.Equal(t, 0, application.Cart.Len())
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"orders": []}`))
	}))
	defer backend.Close()

	cfg := app.Config{
		BackendURL:     backend.URL,
		RequestTimeout: time.Second,
		MetricsAddr:    "127.0.0.1:0",
	}
	application := app.New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}

func TestApp_FailedCreateKeepsCart(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error": "Out of stock"}`))
	}))
	defer backend.Close()

	cfg := app.Config{
		BackendURL:     backend.URL,
		RequestTimeout: 5 * time.Second,
		MetricsAddr:    ":0",
	}
	application := app.New(cfg, nil)

	application.Cart.Add(cart.Item{ProductID: "p1", Qty: 1, Price: decimal.NewFromInt(10)})

	_, err := application.Orders.CreateOrder(context.Background(), application.Cart.Draft("", ""))
	require.Error(t, err)

	msg, ok := application.Store.ErrorMessage()
	require.True(t, ok)
	require.Equal(t, "Out of stock", msg)
	require.Equal(t, 1, application.Cart.Len())
}
