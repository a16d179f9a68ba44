package erp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

func testClient(baseURL string) *Client {
	return NewClient(config.ERPConfig{
		BaseURL:      baseURL,
		Timeout:      2 * time.Second,
		RetryCount:   0,
		RetryWait:    10 * time.Millisecond,
		RetryMaxWait: 50 * time.Millisecond,
	}, zap.NewNop())
}

func TestGetPricing_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/pricing", r.URL.Path)
		assert.Equal(t, "R7-UHF-01,SLR5700-UHF", r.URL.Query().Get("skus"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": 0,
			"msg": "ok",
			"prices": {
				"R7-UHF-01": {"priceCents": 65000, "costCents": 40000},
				"SLR5700-UHF": {"priceCents": 250000, "costCents": 150000}
			}
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	prices, err := client.GetPricing(context.Background(), []string{"R7-UHF-01", "SLR5700-UHF"})
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, int64(65000), prices["R7-UHF-01"].PriceCents)
	assert.Equal(t, int64(150000), prices["SLR5700-UHF"].CostCents)
}

func TestGetPricing_APIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": 0, "prices": {}}`))
	}))
	defer server.Close()

	client := NewClient(config.ERPConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		APIKey:  "test-key",
	}, zap.NewNop())

	_, err := client.GetPricing(context.Background(), []string{"R7-UHF-01"})
	require.NoError(t, err)
}

func TestGetPricing_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.GetPricing(context.Background(), []string{"R7-UHF-01"})

	var external *models.ExternalServiceError
	require.ErrorAs(t, err, &external)
	assert.Equal(t, "erp-pricing", external.Service)
}

func TestGetPricing_ERPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": 5001, "msg": "price list locked"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.GetPricing(context.Background(), []string{"R7-UHF-01"})

	var external *models.ExternalServiceError
	require.ErrorAs(t, err, &external)
	assert.Contains(t, external.Err.Error(), "5001")
}

func TestGetPricing_ConnectionRefused(t *testing.T) {
	client := testClient("http://127.0.0.1:1")
	_, err := client.GetPricing(context.Background(), []string{"R7-UHF-01"})

	var external *models.ExternalServiceError
	require.ErrorAs(t, err, &external)
	assert.Equal(t, "erp-pricing", external.Service)
}

func TestGetInventory_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/inventory", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": 0, "items": {"R7-UHF-01": {"available": 312}}}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	items, err := client.GetInventory(context.Background(), []string{"R7-UHF-01"})
	require.NoError(t, err)
	assert.Equal(t, 312, items["R7-UHF-01"].Available)
}

func TestGetInventory_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"status": 0, "items": {}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := testClient(server.URL)
	_, err := client.GetInventory(ctx, []string{"R7-UHF-01"})
	require.Error(t, err)
}
