// Package erp talks to the external pricing/inventory service (a
// NetSuite-equivalent). Retry and the bounded timeout live here, never in
// the quote pipeline itself; callers fall back to cached values when this
// client fails.
package erp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

// PriceInfo is the per-SKU pricing record the ERP returns.
type PriceInfo struct {
	PriceCents  int64     `json:"priceCents"`
	CostCents   int64     `json:"costCents"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// InventoryInfo is the per-SKU availability record.
type InventoryInfo struct {
	Available int `json:"available"`
}

type pricingResponse struct {
	Status int                  `json:"status"`
	Msg    string               `json:"msg"`
	Prices map[string]PriceInfo `json:"prices"`
}

type inventoryResponse struct {
	Status int                      `json:"status"`
	Msg    string                   `json:"msg"`
	Items  map[string]InventoryInfo `json:"items"`
}

type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewClient(cfg config.ERPConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// GetPricing fetches live price/cost for the given SKUs.
func (c *Client) GetPricing(ctx context.Context, skus []string) (map[string]PriceInfo, error) {
	var response pricingResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("skus", strings.Join(skus, ",")).
		SetResult(&response).
		Get("/api/v1/pricing")
	if err != nil {
		c.logger.Error("ERP pricing call failed", zap.Error(err), zap.Int("sku_count", len(skus)))
		return nil, &models.ExternalServiceError{Service: "erp-pricing", Err: err}
	}
	if resp.IsError() {
		return nil, &models.ExternalServiceError{
			Service: "erp-pricing",
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}
	if response.Status != 0 {
		return nil, &models.ExternalServiceError{
			Service: "erp-pricing",
			Err:     fmt.Errorf("erp error %d: %s", response.Status, response.Msg),
		}
	}

	return response.Prices, nil
}

// GetInventory fetches availability for the given SKUs.
func (c *Client) GetInventory(ctx context.Context, skus []string) (map[string]InventoryInfo, error) {
	var response inventoryResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("skus", strings.Join(skus, ",")).
		SetResult(&response).
		Get("/api/v1/inventory")
	if err != nil {
		c.logger.Error("ERP inventory call failed", zap.Error(err), zap.Int("sku_count", len(skus)))
		return nil, &models.ExternalServiceError{Service: "erp-inventory", Err: err}
	}
	if resp.IsError() {
		return nil, &models.ExternalServiceError{
			Service: "erp-inventory",
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}
	if response.Status != 0 {
		return nil, &models.ExternalServiceError{
			Service: "erp-inventory",
			Err:     fmt.Errorf("erp error %d: %s", response.Status, response.Msg),
		}
	}

	return response.Items, nil
}
