package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopmart/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{16000, "160.00"},
		{5, "0.05"},
		{100, "1.00"},
		{12345, "123.45"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.amount))
	}
}

func newGatewayServer(t *testing.T, orderStatus int, orderBody map[string]any) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	tokenCalls := &atomic.Int32{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		json.NewEncoder(w).Encode(map[string]any{"access_token": "token-1", "expires_in": 3600})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.WriteHeader(orderStatus)
		json.NewEncoder(w).Encode(orderBody)
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(orderStatus)
		json.NewEncoder(w).Encode(orderBody)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, tokenCalls
}

func TestClient_CreateOrder(t *testing.T) {
	srv, tokenCalls := newGatewayServer(t, http.StatusCreated, map[string]any{
		"id":     "5O190127TN364715T",
		"status": "CREATED",
		"links": []map[string]string{
			{"href": "https://example.test/self", "rel": "self"},
			{"href": "https://example.test/approve", "rel": "approve"},
		},
	})

	client := NewClient(srv.URL, "client-id", "client-secret", time.Second)

	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Amount:    16000,
		Currency:  "USD",
		Reference: "ORD-2026-ABC123",
		ReturnURL: "http://localhost/success",
		CancelURL: "http://localhost/cancel",
	})
	require.NoError(t, err)

	assert.Equal(t, "5O190127TN364715T", order.ID)
	assert.Equal(t, "CREATED", order.Status)
	assert.Equal(t, "https://example.test/approve", order.ApprovalURL)

	// second call reuses the cached token
	_, err = client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestClient_ConcurrentOrders(t *testing.T) {
	srv, tokenCalls := newGatewayServer(t, http.StatusCreated, map[string]any{
		"id":     "5O190127TN364715T",
		"status": "CREATED",
	})

	client := NewClient(srv.URL, "client-id", "client-secret", time.Second)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "USD"})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestClient_ExpiredTokenRefetched(t *testing.T) {
	tokenCalls := &atomic.Int32{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		// lifetime shorter than the expiry skew, so the cached token
		// is already considered expired on the next call
		json.NewEncoder(w).Encode(map[string]any{"access_token": "token-1", "expires_in": 1})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "5O190127TN364715T", "status": "CREATED"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "client-id", "client-secret", time.Second)

	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "USD"})
	require.NoError(t, err)
	_, err = client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "USD"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), tokenCalls.Load())
}

func TestClient_StaleTokenRetried(t *testing.T) {
	tokenCalls := &atomic.Int32{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		n := tokenCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("token-%d", n),
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		// the first issued token was revoked on the gateway side
		if r.Header.Get("Authorization") == "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "5O190127TN364715T", "status": "CREATED"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "client-id", "client-secret", time.Second)

	order, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "5O190127TN364715T", order.ID)
	assert.Equal(t, int32(2), tokenCalls.Load())
}

func TestClient_CaptureOrder(t *testing.T) {
	srv, _ := newGatewayServer(t, http.StatusCreated, map[string]any{
		"id":     "5O190127TN364715T",
		"status": StatusCompleted,
		"purchase_units": []map[string]any{
			{"payments": map[string]any{"captures": []map[string]string{{"id": "3C679366HH908993F"}}}},
		},
	})

	client := NewClient(srv.URL, "client-id", "client-secret", time.Second)

	order, err := client.CaptureOrder(context.Background(), "5O190127TN364715T")
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, order.Status)
	assert.Equal(t, "3C679366HH908993F", order.CaptureID)
}

func TestClient_GatewayError(t *testing.T) {
	srv, _ := newGatewayServer(t, http.StatusInternalServerError, map[string]any{})

	client := NewClient(srv.URL, "client-id", "client-secret", time.Second)

	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "USD"})
	assert.ErrorIs(t, err, models.ErrGatewayUnavailable)
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "client-id", "client-secret", 100*time.Millisecond)

	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "USD"})
	assert.ErrorIs(t, err, models.ErrGatewayUnavailable)
}
